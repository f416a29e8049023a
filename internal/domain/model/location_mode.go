package model

import (
	"fmt"
	"regexp"
	"strings"
)

// LocationMode アラート作成フォームのロケーション入力モード
type LocationMode string

const (
	ModeAuto   LocationMode = "auto"
	ModeGPS    LocationMode = "gps"
	ModeManual LocationMode = "manual"
	ModePostal LocationMode = "postal"
)

// ParseLocationMode 文字列からモードを解釈する
func ParseLocationMode(s string) (LocationMode, error) {
	switch m := LocationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeGPS, ModeManual, ModePostal:
		return m, nil
	default:
		return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("不明なモードです: %q", s)}
	}
}

var (
	postalCodePattern  = regexp.MustCompile(`^\d{4,6}$`)
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ValidPostalCode 4〜6桁の数字か
func ValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(code)
}

// ValidCountryCode 2文字の国コードか（大文字化して判定）
func ValidCountryCode(code string) bool {
	return countryCodePattern.MatchString(strings.ToUpper(code))
}

// LocationInput モードごとの入力値。実装は下記4種のみ
type LocationInput interface {
	Mode() LocationMode
	isLocationInput()
}

// AutoLocation 自動判定中（GPSの結果待ち）
type AutoLocation struct{}

// GPSLocation 端末の測位結果と逆ジオコーディングした住所
type GPSLocation struct {
	Coordinate Coordinate
	Address    string
}

// ManualLocation 手入力テキスト。候補を選択した場合のみ座標を持つ
// PostalCode・CountryCode は postal モードへ切り替えたときの初期値で、表示や送信には使わない
type ManualLocation struct {
	Text        string
	Coordinate  *Coordinate
	PostalCode  string
	CountryCode string
}

// PostalLocation 郵便番号と国コード。座標は持たない
type PostalLocation struct {
	PostalCode  string
	CountryCode string
}

func (AutoLocation) Mode() LocationMode   { return ModeAuto }
func (GPSLocation) Mode() LocationMode    { return ModeGPS }
func (ManualLocation) Mode() LocationMode { return ModeManual }
func (PostalLocation) Mode() LocationMode { return ModePostal }

func (AutoLocation) isLocationInput()   {}
func (GPSLocation) isLocationInput()    {}
func (ManualLocation) isLocationInput() {}
func (PostalLocation) isLocationInput() {}

// inputCoordinate 入力値が持つ座標（なければ nil）
func inputCoordinate(in LocationInput) *Coordinate {
	switch v := in.(type) {
	case GPSLocation:
		c := v.Coordinate
		return &c
	case ManualLocation:
		return v.Coordinate
	default:
		return nil
	}
}

// ValidateLocationInput 送信可能かを判定する
// 座標がある、または郵便番号が正しい形式である場合のみ有効
func ValidateLocationInput(in LocationInput) error {
	if c := inputCoordinate(in); c != nil && c.Valid() {
		return nil
	}

	postal, ok := in.(PostalLocation)
	if !ok || postal.PostalCode == "" {
		return fmt.Errorf("%w: %s", ErrLocationRequired, MessageLocationRequired)
	}
	if !ValidPostalCode(postal.PostalCode) {
		return &ValidationError{Field: "postal_code", Message: MessagePostalInvalid}
	}
	if !ValidCountryCode(postal.CountryCode) {
		return &ValidationError{Field: "country_code", Message: MessageCountryInvalid}
	}
	return nil
}
