package styles

import "github.com/hay-kot/sooner/internal/core/notify"

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconInfo        = "\uf05a"
	IconSuccess     = "\uf058"
	IconError       = "\uf057"
	IconQuote       = "\uf10d"
	IconInteractive = "\uf0a6"
	IconBell        = "\uf0f3"
)

// VariantIcon returns the icon drawn before a toast title. Loading toasts use
// a spinner instead and return the empty string.
func VariantIcon(v notify.Variant) string {
	switch v {
	case notify.VariantSuccess:
		return IconSuccess
	case notify.VariantDestructive:
		return IconError
	case notify.VariantQuote:
		return IconQuote
	case notify.VariantInteractive:
		return IconInteractive
	case notify.VariantLoading:
		return ""
	default:
		return IconInfo
	}
}
