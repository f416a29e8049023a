package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient Supabaseクライアントのラッパー
type SupabaseClient struct {
	Client *supabase.Client
}

// NewSupabaseClient 新しいSupabaseクライアントを作成
func NewSupabaseClient(supabaseURL, anonKey string) (*SupabaseClient, error) {
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL環境変数が設定されていません")
	}
	if anonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY環境変数が設定されていません")
	}

	client, err := supabase.NewClient(supabaseURL, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの初期化に失敗: %w", err)
	}

	return &SupabaseClient{
		Client: client,
	}, nil
}

// GetClient Supabaseクライアントを取得
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// HealthCheck alerts テーブルに1件だけ問い合わせて疎通を確認する
// テーブル未作成は周辺検索が未実装として扱われるため警告のみ
func (sc *SupabaseClient) HealthCheck() error {
	if sc.Client == nil {
		return fmt.Errorf("Supabaseクライアントが初期化されていません")
	}
	_, _, err := sc.Client.From("alerts").Select("id", "", false).Limit(1, "").Execute()
	if err != nil {
		if IsMissingRelation(err) {
			log.Printf("⚠️ alerts テーブルが見つかりません: %v", err)
			return nil
		}
		return fmt.Errorf("Supabaseヘルスチェック失敗: %w", err)
	}
	return nil
}

// IsMissingRelation PostgRESTがテーブル未定義を返したか
func IsMissingRelation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "42P01") ||
		strings.Contains(msg, "PGRST205") ||
		strings.Contains(msg, "does not exist")
}
