package security

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "空文字列", input: "", want: ""},
		{name: "プレーンテキストはそのまま", input: "Amateur de paddle", want: "Amateur de paddle"},
		{name: "アクセント付き文字を保持", input: "Léa, Argelès-sur-Mer", want: "Léa, Argelès-sur-Mer"},
		{name: "アンパサンドはエスケープされない", input: "Tentes & caravanes", want: "Tentes & caravanes"},
		{name: "前後の空白を除去", input: "  Apéro au bord du lac  ", want: "Apéro au bord du lac"},
		{name: "強調タグを除去", input: "<strong>Soirée</strong> pétanque", want: "Soirée pétanque"},
		{name: "アポストロフィを保持", input: "À plus dans l'allée D!", want: "À plus dans l'allée D!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_RemovesScripts(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{
		`<script>alert("xss")</script>Bonjour`,
		`<img src="x" onerror="alert(1)">Bonjour`,
		`<iframe src="https://evil.example"></iframe>Bonjour`,
	}

	for _, input := range inputs {
		got := sanitizer.Clean(input)
		if strings.Contains(got, "<") || strings.Contains(got, "alert") {
			t.Errorf("Clean(%q) = %q, want markup removed", input, got)
		}
		if !strings.Contains(got, "Bonjour") {
			t.Errorf("Clean(%q) = %q, want text preserved", input, got)
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{
		"<p>Randonnée</p> au lever du soleil",
		"&lt;script&gt;alert(1)&lt;/script&gt;Bonjour",
		"&lt;b&gt;Pétanque&lt;/b&gt; à 18h",
		"&amp;lt;i&amp;gt;double&amp;lt;/i&amp;gt;",
		"Tentes &amp; caravanes",
		"a < b et c > d",
	}

	for _, input := range inputs {
		first := sanitizer.Clean(input)
		second := sanitizer.Clean(first)
		if first != second {
			t.Errorf("Clean(%q) = %q, then %q", input, first, second)
		}
	}
}

func TestClean_EncodedMarkupIsStripped(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		input string
		want  string
	}{
		{input: "&lt;b&gt;Pétanque&lt;/b&gt; à 18h", want: "Pétanque à 18h"},
		{input: "&lt;script&gt;alert(1)&lt;/script&gt;Bonjour", want: "Bonjour"},
		{input: "Tentes &amp; caravanes", want: "Tentes & caravanes"},
	}

	for _, tt := range tests {
		got := sanitizer.Clean(tt.input)
		if got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if strings.Contains(got, "<") {
			t.Errorf("Clean(%q) = %q, want no markup", tt.input, got)
		}
	}
}

func TestCleanAll_DropsEmpty(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := CleanAll(sanitizer, []string{" Surf ", "<b></b>", "", "Vélo"})
	want := []string{"Surf", "Vélo"}

	if len(got) != len(want) {
		t.Fatalf("CleanAll() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanAll()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
