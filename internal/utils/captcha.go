package utils

import "github.com/mojocn/base64Captcha"

// 验证码存在进程内存里, 过期由 DefaultMemStore 自行处理
var captchaStore = base64Captcha.DefaultMemStore

// MakeCaptcha 生成一张 6 位数字验证码图片
// 返回验证码 id、图片的 base64 字符串和答案
func MakeCaptcha() (id, b64s, answer string, err error) {
	driver := base64Captcha.NewDriverDigit(60, 200, 6, 0.6, 60)
	return base64Captcha.NewCaptcha(driver, captchaStore).Generate()
}

// VerifyCaptcha 校验后验证码立即作废, 不能重复使用
func VerifyCaptcha(id, answer string) bool {
	return captchaStore.Verify(id, answer, true)
}
