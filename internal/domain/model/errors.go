package model

import "errors"

var (
	// ErrMissingAPIKey Places/Geocoding APIキー未設定（設定ミスとして呼び出し元に返す）
	ErrMissingAPIKey = errors.New("Google Maps APIキーが設定されていません")
	// ErrNearbyNotImplemented バックエンドに周辺検索エンドポイントが存在しない
	ErrNearbyNotImplemented = errors.New("周辺アラート検索がバックエンドで未実装です")
	// ErrLocationRequired 送信時に座標も郵便番号もない
	ErrLocationRequired = errors.New("ubicación requerida")
	ErrInvalidTransition = errors.New("無効なロケーションモード遷移です")
	ErrDraftNotFound     = errors.New("下書きが見つかりません（有効期限切れまたは無効なID）")
	// ErrDraftForbidden 他のユーザーが作成した下書きへのアクセス
	ErrDraftForbidden = errors.New("この下書きにはアクセスできません")

	ErrPermissionDenied    = errors.New("位置情報の権限が拒否されました")
	ErrPositionTimeout     = errors.New("位置情報の取得がタイムアウトしました")
	ErrPositionUnavailable = errors.New("位置情報を取得できません")
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
