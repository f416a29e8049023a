package model

// LocationSource 位置情報の取得元
type LocationSource string

const (
	SourceGPS    LocationSource = "GPS"
	SourceManual LocationSource = "MANUAL"
	SourceAuto   LocationSource = "AUTO"
	SourceError  LocationSource = "ERROR"
)

// LocationResult 位置解決の結果
// GPS・AUTO の場合は必ず Coordinate を持つ
// PostalCode・CountryCode は場所の詳細に含まれていた場合のみ
type LocationResult struct {
	Location    string         `json:"location"`
	Coordinate  *Coordinate    `json:"coordinate"`
	Source      LocationSource `json:"source"`
	PostalCode  string         `json:"postal_code,omitempty"`
	CountryCode string         `json:"country_code,omitempty"`
}

// Latitude 緯度（座標なしの場合は nil）
func (r *LocationResult) Latitude() *float64 {
	if r == nil || r.Coordinate == nil {
		return nil
	}
	v := r.Coordinate.Latitude
	return &v
}

// Longitude 経度（座標なしの場合は nil）
func (r *LocationResult) Longitude() *float64 {
	if r == nil || r.Coordinate == nil {
		return nil
	}
	v := r.Coordinate.Longitude
	return &v
}

// PermissionStatus 端末の位置情報権限の状態
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Accuracy 測位精度
type Accuracy string

const (
	AccuracyLow      Accuracy = "low"
	AccuracyBalanced Accuracy = "balanced"
)

// AcquisitionFailure 現在地取得失敗の分類
type AcquisitionFailure string

const (
	FailureNone        AcquisitionFailure = ""
	FailureDenied      AcquisitionFailure = "permission_denied"
	FailureTimeout     AcquisitionFailure = "timeout"
	FailureUnavailable AcquisitionFailure = "unavailable"
	FailureOther       AcquisitionFailure = "other"
)

// Acquisition 現在地取得の結果。失敗時は Coordinate が nil で Message にユーザー向け文言が入る
type Acquisition struct {
	Coordinate *Coordinate        `json:"coordinate"`
	Failure    AcquisitionFailure `json:"failure,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// OK 座標が取得できたか
func (a Acquisition) OK() bool {
	return a.Coordinate != nil
}
