package auth

// Identity 上游登入後回傳的 token 與使用者資料。
type Identity struct {
	Token string
	User  User
}
