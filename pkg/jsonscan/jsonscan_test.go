package jsonscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "pure json", text: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "prose around", text: "Here is my analysis:\n{\"seo_score\": 7}\nHope it helps.", want: `{"seo_score": 7}`, wantOK: true},
		{name: "nested", text: `x {"a":{"b":[1,2]},"c":"d"} y`, want: `{"a":{"b":[1,2]},"c":"d"}`, wantOK: true},
		{name: "braces in strings", text: `{"text":"use } and { freely","n":1}`, want: `{"text":"use } and { freely","n":1}`, wantOK: true},
		{name: "escaped quote", text: `{"q":"say \"}\" now"}`, want: `{"q":"say \"}\" now"}`, wantOK: true},
		{name: "invalid region skipped", text: `{not json} then {"ok":true}`, want: `{"ok":true}`, wantOK: true},
		{name: "inner object when outer invalid", text: `{broken {"ok":1}`, want: `{"ok":1}`, wantOK: true},
		{name: "unbalanced", text: `{"a":1`, wantOK: false},
		{name: "no braces", text: "no json at all", wantOK: false},
		{name: "empty", text: "", wantOK: false},
		{name: "markdown fence", text: "```json\n{\"a\": \"b\"}\n```", want: `{"a": "b"}`, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstObject(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllObjects(t *testing.T) {
	text := `<script>var a = {"x":1};</script><script>window.data = {"items":[{"n":"a.com"}]};</script> {bad}`
	got := AllObjects(text)
	assert.Equal(t, []string{`{"x":1}`, `{"items":[{"n":"a.com"}]}`}, got)

	assert.Empty(t, AllObjects("nothing here"))
}
