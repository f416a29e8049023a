package model

import "time"

// AlertType アラートの種別
type AlertType string

const (
	AlertTypeLost  AlertType = "lost"
	AlertTypeFound AlertType = "found"
)

// Valid 既知の種別か（空は「全種別」として扱う）
func (t AlertType) Valid() bool {
	return t == "" || t == AlertTypeLost || t == AlertTypeFound
}

// Alert 迷子・保護ペットのアラート
type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	PetName     string    `json:"pet_name,omitempty"`
	Species     string    `json:"species,omitempty"`
	Breed       string    `json:"breed,omitempty"`
	Description string    `json:"description,omitempty"`
	PhotoURLs   []string  `json:"photo_urls,omitempty"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	PostalCode  string    `json:"postal_code,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Coordinate 緯度経度が揃っていて有効な場合のみ返す
func (a *Alert) Coordinate() *Coordinate {
	if a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	c := &Coordinate{Latitude: *a.Latitude, Longitude: *a.Longitude}
	if !c.Valid() {
		return nil
	}
	return c
}

// AlertWithDistance 検索地点からの距離付きアラート
type AlertWithDistance struct {
	Alert
	DistanceKm   *float64 `json:"distance_km"`
	DistanceText string   `json:"distance_text,omitempty"`
}

// NearbyQuery 周辺アラート検索条件
type NearbyQuery struct {
	Center   Coordinate
	RadiusKm float64
	Type     AlertType
	Limit    int
}

// RadiusMeters 半径をメートルで返す
func (q NearbyQuery) RadiusMeters() float64 {
	return q.RadiusKm * 1000
}

// AlertSubmission 送信確定したアラート（イベントとして配信する）
type AlertSubmission struct {
	AlertID     string       `json:"alert_id"`
	DraftID     string       `json:"draft_id"`
	UserID      string       `json:"user_id,omitempty"`
	Type        AlertType    `json:"type"`
	PetName     string       `json:"pet_name,omitempty"`
	Species     string       `json:"species,omitempty"`
	Breed       string       `json:"breed,omitempty"`
	Description string       `json:"description,omitempty"`
	PhotoKeys   []string     `json:"photo_keys,omitempty"`
	Mode        LocationMode `json:"location_mode"`
	Location    string       `json:"location,omitempty"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	PostalCode  string       `json:"postal_code,omitempty"`
	CountryCode string       `json:"country_code,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// AlertDetails 送信時にユーザーが入力するアラート本文
type AlertDetails struct {
	Type        AlertType `json:"type"`
	PetName     string    `json:"pet_name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Description string    `json:"description"`
}
