package model

import (
	"fmt"
	"strings"
	"time"
)

// AlertDraft アラート作成フォームの状態
// auto は作成直後のみ。以降は gps / manual / postal の間を遷移する
type AlertDraft struct {
	ID                string
	UserID            string
	Input             LocationInput
	Message           string
	AddressGeneration int64
	PhotoKeys         []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewAlertDraft auto モードの新しい下書きを作成
func NewAlertDraft(id, userID string, now time.Time) *AlertDraft {
	return &AlertDraft{
		ID:        id,
		UserID:    userID,
		Input:     AutoLocation{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy 下書きを操作できるユーザーか
// 作成者または呼び出し元のどちらかが匿名なら制限しない
func (d *AlertDraft) OwnedBy(userID string) bool {
	return d.UserID == "" || userID == "" || d.UserID == userID
}

// Mode 現在のモード
func (d *AlertDraft) Mode() LocationMode {
	if d.Input == nil {
		return ModeAuto
	}
	return d.Input.Mode()
}

// ApplyAutoDetection auto モードでの現在地取得結果を反映する
// 成功なら gps、失敗なら postal に遷移し、失敗理由を Message に残す
func (d *AlertDraft) ApplyAutoDetection(acq Acquisition) (int64, error) {
	if d.Mode() != ModeAuto {
		return 0, fmt.Errorf("%w: %s から自動判定はできません", ErrInvalidTransition, d.Mode())
	}
	if acq.Coordinate == nil {
		d.Input = PostalLocation{}
		d.Message = acq.Message
		return 0, nil
	}
	return d.EnterGPS(*acq.Coordinate)
}

// EnterGPS 測位結果で gps モードに入る。他モードの入力値は破棄される
// 返り値の世代番号は SetGPSAddress に渡す
func (d *AlertDraft) EnterGPS(c Coordinate) (int64, error) {
	if !c.Valid() {
		return 0, &ValidationError{Field: "coordinate", Message: "無効な座標です"}
	}
	d.Input = GPSLocation{Coordinate: c}
	d.Message = ""
	d.AddressGeneration++
	return d.AddressGeneration, nil
}

// SetGPSAddress 逆ジオコーディング結果を反映する
// 世代が古い、またはモードが変わっている場合は反映せず false を返す
func (d *AlertDraft) SetGPSAddress(generation int64, address string) bool {
	gps, ok := d.Input.(GPSLocation)
	if !ok || generation != d.AddressGeneration {
		return false
	}
	gps.Address = address
	d.Input = gps
	return true
}

// SwitchTo manual / postal に切り替える。auto への再遷移はできない
// gps は座標が必要なため EnterGPS を使う
func (d *AlertDraft) SwitchTo(mode LocationMode) error {
	switch mode {
	case ModeManual:
		d.Input = ManualLocation{}
	case ModePostal:
		postal := PostalLocation{}
		if m, ok := d.Input.(ManualLocation); ok {
			postal = PostalLocation{PostalCode: m.PostalCode, CountryCode: m.CountryCode}
		}
		d.Input = postal
	case ModeAuto:
		return fmt.Errorf("%w: auto には戻れません", ErrInvalidTransition)
	case ModeGPS:
		return fmt.Errorf("%w: gps には座標が必要です", ErrInvalidTransition)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTransition, mode)
	}
	d.Message = ""
	d.AddressGeneration++
	return nil
}

// SetManual 手入力テキストを設定する。座標は候補選択時のみ渡す
func (d *AlertDraft) SetManual(text string, c *Coordinate) error {
	if d.Mode() != ModeManual {
		return fmt.Errorf("%w: 現在のモードは %s です", ErrInvalidTransition, d.Mode())
	}
	if c != nil && !c.Valid() {
		c = nil
	}
	d.Input = ManualLocation{Text: text, Coordinate: c}
	return nil
}

// SelectManual 候補の選択結果を manual モードの値にする
// 結果に郵便番号があれば postal への切り替え時に引き継ぐ
func (d *AlertDraft) SelectManual(r LocationResult) error {
	if err := d.SetManual(r.Location, r.Coordinate); err != nil {
		return err
	}
	m := d.Input.(ManualLocation)
	m.PostalCode = strings.TrimSpace(r.PostalCode)
	m.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	d.Input = m
	return nil
}

// SetPostal 郵便番号と国コードを設定する（形式チェックは送信時）
func (d *AlertDraft) SetPostal(postalCode, countryCode string) error {
	if d.Mode() != ModePostal {
		return fmt.Errorf("%w: 現在のモードは %s です", ErrInvalidTransition, d.Mode())
	}
	d.Input = PostalLocation{
		PostalCode:  strings.TrimSpace(postalCode),
		CountryCode: strings.ToUpper(strings.TrimSpace(countryCode)),
	}
	return nil
}

// Validate 送信可能かを判定する
func (d *AlertDraft) Validate() error {
	return ValidateLocationInput(d.Input)
}

// DraftFields フォームに表示する平坦化した値
type DraftFields struct {
	ID          string       `json:"id"`
	Mode        LocationMode `json:"mode"`
	Location    string       `json:"location"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	PostalCode  string       `json:"postal_code"`
	CountryCode string       `json:"country_code"`
	Message     string       `json:"message,omitempty"`
	PhotoKeys   []string     `json:"photo_keys,omitempty"`
	Valid       bool         `json:"valid"`
}

// Fields 現在のモードに属さない値は常に空になる
func (d *AlertDraft) Fields() DraftFields {
	f := DraftFields{
		ID:        d.ID,
		Mode:      d.Mode(),
		Message:   d.Message,
		PhotoKeys: d.PhotoKeys,
		Valid:     d.Validate() == nil,
	}
	switch v := d.Input.(type) {
	case GPSLocation:
		f.Location = v.Address
		f.Latitude, f.Longitude = &v.Coordinate.Latitude, &v.Coordinate.Longitude
	case ManualLocation:
		f.Location = v.Text
		if v.Coordinate != nil {
			f.Latitude, f.Longitude = &v.Coordinate.Latitude, &v.Coordinate.Longitude
		}
	case PostalLocation:
		f.PostalCode = v.PostalCode
		f.CountryCode = v.CountryCode
	}
	return f
}

// FirestoreDraft Firestore 保存用の下書き
type FirestoreDraft struct {
	UserID            string    `firestore:"user_id"`
	Mode              string    `firestore:"mode"`
	Location          string    `firestore:"location"`
	Latitude          *float64  `firestore:"latitude"`
	Longitude         *float64  `firestore:"longitude"`
	PostalCode        string    `firestore:"postal_code"`
	CountryCode       string    `firestore:"country_code"`
	Message           string    `firestore:"message"`
	AddressGeneration int64     `firestore:"address_generation"`
	PhotoKeys         []string  `firestore:"photo_keys"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
	ExpireAt          time.Time `firestore:"expireAt"`
}

func (d *AlertDraft) ToFirestoreDraft(ttlHours int) *FirestoreDraft {
	f := d.Fields()
	if m, ok := d.Input.(ManualLocation); ok {
		f.PostalCode, f.CountryCode = m.PostalCode, m.CountryCode
	}
	return &FirestoreDraft{
		UserID:            d.UserID,
		Mode:              string(f.Mode),
		Location:          f.Location,
		Latitude:          f.Latitude,
		Longitude:         f.Longitude,
		PostalCode:        f.PostalCode,
		CountryCode:       f.CountryCode,
		Message:           d.Message,
		AddressGeneration: d.AddressGeneration,
		PhotoKeys:         d.PhotoKeys,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		ExpireAt:          d.UpdatedAt.Add(time.Duration(ttlHours) * time.Hour),
	}
}

func (fd *FirestoreDraft) ToAlertDraft(id string) *AlertDraft {
	d := &AlertDraft{
		ID:                id,
		UserID:            fd.UserID,
		Message:           fd.Message,
		AddressGeneration: fd.AddressGeneration,
		PhotoKeys:         fd.PhotoKeys,
		CreatedAt:         fd.CreatedAt,
		UpdatedAt:         fd.UpdatedAt,
	}

	var c *Coordinate
	if fd.Latitude != nil && fd.Longitude != nil {
		c = &Coordinate{Latitude: *fd.Latitude, Longitude: *fd.Longitude}
	}

	switch LocationMode(fd.Mode) {
	case ModeGPS:
		if c == nil {
			d.Input = PostalLocation{}
			break
		}
		d.Input = GPSLocation{Coordinate: *c, Address: fd.Location}
	case ModeManual:
		d.Input = ManualLocation{Text: fd.Location, Coordinate: c, PostalCode: fd.PostalCode, CountryCode: fd.CountryCode}
	case ModePostal:
		d.Input = PostalLocation{PostalCode: fd.PostalCode, CountryCode: fd.CountryCode}
	default:
		d.Input = AutoLocation{}
	}
	return d
}
