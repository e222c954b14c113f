package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExposedName returns the name statements use for a function registered
// under name. Subjects are written capitalized in the language, so a
// snake_case subject name becomes CamelCase (http_file -> HttpFile). Action
// and condition names are used unchanged.
func ExposedName(role Role, name string) string {
	if role != RoleSubject {
		return name
	}
	caser := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, part := range strings.Split(name, "_") {
		sb.WriteString(caser.String(part))
	}
	return sb.String()
}
