package model

// PlaceSuggestion オートコンプリート候補
type PlaceSuggestion struct {
	PlaceID    string      `json:"place_id"`
	Title      string      `json:"title"`
	Subtitle   string      `json:"subtitle"`
	Types      []string    `json:"types,omitempty"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
}

// AddressComponent 住所の構成要素
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// PlaceDetails 場所の詳細
type PlaceDetails struct {
	PlaceID           string             `json:"place_id"`
	Title             string             `json:"title"`
	FormattedAddress  string             `json:"formatted_address"`
	Coordinate        Coordinate         `json:"coordinate"`
	AddressComponents []AddressComponent `json:"address_components,omitempty"`
}

// Component 指定タイプの住所要素を返す（例: "postal_code", "country"）
func (d *PlaceDetails) Component(componentType string) (AddressComponent, bool) {
	for _, c := range d.AddressComponents {
		for _, t := range c.Types {
			if t == componentType {
				return c, true
			}
		}
	}
	return AddressComponent{}, false
}

// AutocompleteRequest オートコンプリート検索条件
type AutocompleteRequest struct {
	Input        string
	Bias         *Coordinate
	BiasRadiusM  int
	Language     string
	Countries    []string
	SessionToken string
}
