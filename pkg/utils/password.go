package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt 只看前 72 字节，超长先截断，避免 GenerateFromPassword 直接报错
func clamp(pw string) []byte {
	b := []byte(pw)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword(clamp(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), clamp(pw)) == nil
}

// NeedsRehash 低于当前 cost 的旧哈希在下次成功登录时升级
func NeedsRehash(hashed string) bool {
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		return false
	}
	return cost < bcrypt.DefaultCost
}
