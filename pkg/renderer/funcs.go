package renderer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TemplateFuncs are registered on the html engine at startup.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("Mon 02 Jan 2006 15:04")
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("02 Jan 2006")
		},
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"lower": strings.ToLower,
		"statusClass": func(status any) string {
			switch strings.ToUpper(fmt.Sprint(status)) {
			case "CANCELLED", "DECLINED":
				return "badge-danger"
			case "ATTENDING", "ACCEPTED", "ONGOING":
				return "badge-success"
			case "MAYBE", "PENDING":
				return "badge-warning"
			default:
				return "badge-info"
			}
		},
	}
}
