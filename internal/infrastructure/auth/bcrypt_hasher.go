package authinfra

import "golang.org/x/crypto/bcrypt"

// BcryptHasher 使用 bcrypt 雜湊與檢查密碼；Cost 為 0 時使用預設成本。
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Compare(hashed, plain string) bool {
	if hashed == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
