package mapper

import (
	"strings"
	"unicode"
)

// SnakeCase вставляет "_" перед каждой заглавной латинской буквой A-Z и опускает её регистр.
// Остальные символы не меняются. Ведущий "_" отбрасывается.
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(b.String(), "_")
}

// CamelCase убирает "_" перед строчной латинской буквой, поднимая её в верхний регистр.
func CamelCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	rs := []rune(name)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '_' && i+1 < len(rs) && rs[i+1] >= 'a' && rs[i+1] <= 'z' {
			b.WriteRune(unicode.ToUpper(rs[i+1]))
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}
