package format

import (
	"errors"
	"testing"

	"github.com/ytget/videodl/internal/model"
)

func TestSelect_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		c        Constraints
		expected string
		merges   bool
	}{
		{
			name:     "explicit id with muxer prefers m4a audio",
			c:        Constraints{FormatID: "137", MuxerAvailable: true, PreferMP4: true, EnsureAudio: true},
			expected: "137+bestaudio[ext=m4a]/bestaudio/best/137",
			merges:   true,
		},
		{
			name:     "explicit id with muxer any container",
			c:        Constraints{FormatID: "248", MuxerAvailable: true, EnsureAudio: true},
			expected: "248+bestaudio/best/248",
			merges:   true,
		},
		{
			name:     "explicit id without muxer falls back to progressive",
			c:        Constraints{FormatID: "137", PreferMP4: true, EnsureAudio: true},
			expected: "137[acodec!=none]/best[ext=mp4][acodec!=none][vcodec!=none]/best[acodec!=none][vcodec!=none]/137",
		},
		{
			name:     "no id with muxer prefers mp4",
			c:        Constraints{MuxerAvailable: true, PreferMP4: true, EnsureAudio: true},
			expected: "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best",
			merges:   true,
		},
		{
			name:     "no id with muxer any container",
			c:        Constraints{MuxerAvailable: true, EnsureAudio: true},
			expected: "bestvideo+bestaudio/best",
			merges:   true,
		},
		{
			name:     "no id without muxer",
			c:        Constraints{PreferMP4: true, EnsureAudio: true},
			expected: "best[ext=mp4][acodec!=none][vcodec!=none]/best[acodec!=none][vcodec!=none]",
		},
		{
			name:     "audio not ensured keeps id",
			c:        Constraints{FormatID: "22", MuxerAvailable: true, PreferMP4: true},
			expected: "22",
		},
		{
			name:     "audio not ensured without id",
			c:        Constraints{MuxerAvailable: false},
			expected: "best",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.c)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if sel.Expression != tt.expected {
				t.Errorf("Expression = %q, expected %q", sel.Expression, tt.expected)
			}
			if sel.Merges() != tt.merges {
				t.Errorf("Merges() = %v, expected %v", sel.Merges(), tt.merges)
			}
			if tt.merges {
				if sel.MergeContainer != MergeContainer || sel.PostProcessorArgs != FastStartArgs {
					t.Errorf("merge side effects = (%q, %q)", sel.MergeContainer, sel.PostProcessorArgs)
				}
			} else if sel.MergeContainer != "" || sel.PostProcessorArgs != "" {
				t.Errorf("unexpected merge side effects = (%q, %q)", sel.MergeContainer, sel.PostProcessorArgs)
			}
		})
	}
}

func TestSelect_AudioOnly(t *testing.T) {
	_, err := Select(Constraints{AudioOnly: true, MuxerAvailable: false, FormatID: "140"})
	if !errors.Is(err, model.ErrMuxerRequired) {
		t.Fatalf("expected ErrMuxerRequired, got %v", err)
	}

	sel, err := Select(Constraints{AudioOnly: true, MuxerAvailable: true, PreferMP4: true, EnsureAudio: true})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Expression != "bestaudio/best" {
		t.Errorf("Expression = %q, expected %q", sel.Expression, "bestaudio/best")
	}
	if len(sel.PostProcessors) != 1 {
		t.Fatalf("expected one post-processor, got %d", len(sel.PostProcessors))
	}
	pp := sel.PostProcessors[0]
	if pp.Kind != model.PPExtractAudio || pp.Codec != "mp3" || pp.Quality != "192" {
		t.Errorf("post-processor = %+v", pp)
	}
	if sel.MergeContainer != "" {
		t.Errorf("audio-only should not merge, got container %q", sel.MergeContainer)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	for _, id := range []string{"", "137"} {
		for mask := 0; mask < 16; mask++ {
			c := Constraints{
				FormatID:       id,
				AudioOnly:      mask&1 != 0,
				MuxerAvailable: mask&2 != 0,
				PreferMP4:      mask&4 != 0,
				EnsureAudio:    mask&8 != 0,
			}
			a, errA := Select(c)
			b, errB := Select(c)
			if a.Expression != b.Expression || (errA == nil) != (errB == nil) {
				t.Errorf("Select(%+v) not deterministic: %q/%v vs %q/%v", c, a.Expression, errA, b.Expression, errB)
			}
		}
	}
}

func TestConstraintsFor(t *testing.T) {
	req := model.DownloadRequest{FormatID: "18", AudioOnly: true, PreferMP4: true, EnsureAudio: true}
	c := ConstraintsFor(req, true)
	expected := Constraints{FormatID: "18", AudioOnly: true, MuxerAvailable: true, PreferMP4: true, EnsureAudio: true}
	if c != expected {
		t.Errorf("ConstraintsFor() = %+v, expected %+v", c, expected)
	}
}

func TestThumbnailPostProcessors(t *testing.T) {
	pps := ThumbnailPostProcessors()
	kinds := []model.PostProcessorKind{model.PPEmbedThumbnail, model.PPEmbedMetadata, model.PPConvertThumbnails}
	if len(pps) != len(kinds) {
		t.Fatalf("expected %d steps, got %d", len(kinds), len(pps))
	}
	for i, k := range kinds {
		if pps[i].Kind != k {
			t.Errorf("step %d = %s, expected %s", i, pps[i].Kind, k)
		}
	}
	if pps[2].Format != "jpg" {
		t.Errorf("thumbnail format = %q, expected jpg", pps[2].Format)
	}
}
