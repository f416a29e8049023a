package model

import "time"

// 距離計算
const (
	EarthRadiusKm = 6371.0
)

// オートコンプリートの既定値
const (
	DefaultAutocompleteLimit    = 5
	DefaultAutocompleteDebounce = 300 * time.Millisecond
	DefaultAutocompleteMinChars = 3
	DefaultSuppressionWindow    = 50 * time.Millisecond
	DefaultBiasRadiusMeters     = 50000
)

// 現在地取得の既定値
const (
	DefaultLocationTimeout = 10 * time.Second
)

// 周辺検索の既定値
const (
	DefaultNearbyRadiusKm = 10.0
	DefaultNearbyLimit    = 50
)

// ユーザー向けメッセージ（アプリの表示言語に合わせてスペイン語）
const (
	MessagePermissionDenied    = "Permiso de ubicación denegado. Activa la ubicación para usar tu posición actual."
	MessageLocationTimeout     = "La ubicación tardó demasiado. Intenta de nuevo."
	MessageLocationUnavailable = "No se pudo obtener la ubicación. Verifica que tengas la ubicación activada."
	MessageLocationGeneric     = "No se pudo obtener tu ubicación actual."
	MessageLocationRequired    = "Indica una ubicación: usa el GPS o ingresa un código postal."
	MessagePostalInvalid       = "El código postal debe tener entre 4 y 6 dígitos."
	MessageCountryInvalid      = "El código de país debe tener 2 letras."
)
