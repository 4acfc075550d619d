package platform

import (
	"path/filepath"
	"strings"
	"testing"
)

const forbidden = `\/:*?"<>|`

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"empty", "", ""},
		{"clean", "My Video", "My Video"},
		{"all forbidden", forbidden, "_________"},
		{"mixed", `a/b:c*d?e"f<g>h|i\j`, "a_b_c_d_e_f_g_h_i_j"},
		{"unicode kept", "Aula 1: Introdução", "Aula 1_ Introdução"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestSanitize_IdempotentAndClean(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		forbidden,
		"a<<b>>c",
		"C:\\Users\\me\\file?.mp4",
		"__already__clean__",
		"emoji 🎬 | title",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.ContainsAny(once, forbidden) {
			t.Errorf("Sanitize(%q) = %q still contains forbidden characters", in, once)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Lesson 01 - Intro_part.v2", "Lesson 01 - Intro_part.v2"},
		{"What's new? (2024)", "Whats new 2024"},
		{"trailing   ", "trailing"},
		{"!!!", FallbackBaseName},
		{"   ", FallbackBaseName},
		{"Ação", "Ação"},
	}

	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.expected {
			t.Errorf("CleanTitle(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestBuildTemplate(t *testing.T) {
	dir := filepath.Join("out", "videos")
	tests := []struct {
		name     string
		title    string
		playlist bool
		expected string
	}{
		{"metadata title", "", false, filepath.Join(dir, "%(title)s.%(ext)s")},
		{"custom title", "My: Talk!", false, filepath.Join(dir, "My Talk.%(ext)s")},
		{"empty after cleaning", "???", false, filepath.Join(dir, "video_download.%(ext)s")},
		{"playlist metadata title", "", true, filepath.Join(dir, "%(playlist_index)03d - %(title)s.%(ext)s")},
		{"playlist custom title", "Course", true, filepath.Join(dir, "%(playlist_index)03d - Course.%(ext)s")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTemplate(dir, tt.title, tt.playlist); got != tt.expected {
				t.Errorf("BuildTemplate() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestBuildTemplateWidth(t *testing.T) {
	got := BuildTemplateWidth("d", "", true, 5)
	if expected := filepath.Join("d", "%(playlist_index)05d - %(title)s.%(ext)s"); got != expected {
		t.Errorf("BuildTemplateWidth() = %q, expected %q", got, expected)
	}
	got = BuildTemplateWidth("d", "", true, 0)
	if !strings.Contains(got, "%(playlist_index)03d") {
		t.Errorf("non-positive width should fall back to default, got %q", got)
	}
}

func TestDirectNaming(t *testing.T) {
	if got := DirectTemplate("d", ""); got != filepath.Join("d", "video_download.%(ext)s") {
		t.Errorf("DirectTemplate() empty title = %q", got)
	}
	if got := DirectPath("d", "Aula 3: HLS", ".mp4"); got != filepath.Join("d", "Aula 3_ HLS.mp4") {
		t.Errorf("DirectPath() = %q", got)
	}
}
