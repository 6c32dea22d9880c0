package storage

// 永続化キー。各キーを所有するエンティティは1つだけで、複数のエンティティで共有しない。
const (
	KeyProfile = "campmatch.profile"
	KeyEvents  = "campmatch.events"
	KeyTheme   = "campmatch.theme"
	KeySession = "campmatch.session"
	// KeyUsers はローカルフォールバック認証の登録情報リスト。
	KeyUsers = "campmatch.users"
)

// AllKeys はアプリケーションが使用する全キーを返す。
func AllKeys() []string {
	return []string{KeyProfile, KeyEvents, KeyTheme, KeySession, KeyUsers}
}
