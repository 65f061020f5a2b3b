package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"accented", "A Paz que Excede", "a-paz-que-excede"},
		{"full title", "A Paz que Excede Todo Entendimento", "a-paz-que-excede-todo-entendimento"},
		{"punctuation and diacritics", "João 3:16 — A Paz!", "joao-316-a-paz"},
		{"multiple spaces", "too   many    spaces", "too-many-spaces"},
		{"leading and trailing junk", "  ...Esperança!  ", "esperanca"},
		{"hyphens collapse", "pre--existing --- hyphens", "pre-existing-hyphens"},
		{"cedilla and tilde", "Oração e Gratidão", "oracao-e-gratidao"},
		{"empty", "", ""},
		{"only punctuation", "!!!???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	titles := []string{
		"João 3:16 — A Paz!",
		"A Paz que Excede Todo Entendimento",
		"Confiança em Deus",
	}
	for _, title := range titles {
		once := Make(title)
		assert.Equal(t, once, Make(once), "re-deriving from %q must be stable", once)
	}
}
