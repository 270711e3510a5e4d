package controller

import (
	"fmt"
	"reflect"
	"strings"

	"forumcore/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// 全局翻译器
var trans ut.Translator

// InitTrans 初始化校验错误的翻译器，locale 为 "zh" 或 "en"
func InitTrans(locale string) (err error) {
	if binding.Validator == nil {
		binding.Validator = &defaultValidator{validator: validator.New()}
	}

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	// 错误提示使用 json tag 作为字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	zhT := zh.New()
	enT := en.New()
	// 第一个参数是找不到匹配语言时的 fallback
	uni := ut.New(enT, zhT, enT)

	trans, ok = uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	switch locale {
	case "zh":
		err = zh_translations.RegisterDefaultTranslations(v, trans)
	default:
		err = en_translations.RegisterDefaultTranslations(v, trans)
	}
	if err != nil {
		return err
	}

	v.RegisterStructValidation(SignUpParamStructLevelValidation, models.ParamSignUp{})
	v.RegisterStructValidation(BanParamStructLevelValidation, models.ParamBan{})
	return nil
}

// removeTopStruct 去掉 "ParamSignUp.username" 里的结构体前缀
func removeTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}

// SignUpParamStructLevelValidation 两次密码必须一致
func SignUpParamStructLevelValidation(sl validator.StructLevel) {
	su := sl.Current().Interface().(models.ParamSignUp)
	if su.Password != su.RePassword {
		// 复用 eqfield 规则名以便使用已有翻译
		sl.ReportError(su.RePassword, "re_password", "RePassword", "eqfield", "password")
	}
}

// BanParamStructLevelValidation 临时封禁必须带过期时间
func BanParamStructLevelValidation(sl validator.StructLevel) {
	p := sl.Current().Interface().(models.ParamBan)
	if p.Status == models.BanTemporary && p.ExpiresAt == nil {
		sl.ReportError(p.ExpiresAt, "expires_at", "ExpiresAt", "required", "")
	}
}

// defaultValidator gin v1.9+ 中 binding.Validator 可能为 nil 时使用
type defaultValidator struct {
	validator *validator.Validate
}

func (v *defaultValidator) ValidateStruct(obj interface{}) error {
	return v.validator.Struct(obj)
}

func (v *defaultValidator) Engine() interface{} {
	return v.validator
}
