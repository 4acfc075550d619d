package siterules

import (
	"slices"
	"testing"
	"time"

	"github.com/ytget/videodl/internal/extractor"
)

func adapt(r *Registry, url string, headers map[string]string, phase extractor.Phase) extractor.Options {
	opts := extractor.Options{ExtractFlat: true}
	r.Adapt(url, headers, phase, &opts)
	return opts
}

func TestAdapt_NoHeadersIsNoop(t *testing.T) {
	r := Default(nil)
	opts := adapt(r, "https://iframe.mediadelivery.net/embed/1/2", nil, extractor.PhaseDownload)
	if !opts.ExtractFlat || opts.HTTPHeaders != nil || opts.IgnoreCertificateErrors || opts.Format != "" {
		t.Errorf("options changed without headers: %+v", opts)
	}
}

func TestAdapt_BaseHeaders(t *testing.T) {
	r := Default(nil)
	headers := map[string]string{"referer": "https://course.example/", "User-Agent": "UA/1", "Cookie": "a=b"}

	probe := adapt(r, "https://videos.example/watch/1", headers, extractor.PhaseProbe)
	if probe.Referer != "https://course.example/" || probe.UserAgent != "UA/1" {
		t.Errorf("overrides = (%q, %q)", probe.Referer, probe.UserAgent)
	}
	if !probe.DisableCookieFile || !probe.IgnoreCertificateErrors {
		t.Error("captured headers should disable the cookie file and certificate checks")
	}
	if probe.HTTPHeaders["Cookie"] != "a=b" {
		t.Errorf("headers not copied: %v", probe.HTTPHeaders)
	}
	if probe.SocketTimeout != 0 || !probe.ExtractFlat {
		t.Errorf("probe should keep flat mode and no socket timeout: %+v", probe)
	}

	dl := adapt(r, "https://videos.example/watch/1", headers, extractor.PhaseDownload)
	if dl.SocketTimeout != HeaderSocketTimeout {
		t.Errorf("download socket timeout = %v, expected %v", dl.SocketTimeout, HeaderSocketTimeout)
	}
}

func TestAdapt_BunnyCDN(t *testing.T) {
	r := Default(nil)
	headers := map[string]string{"Referer": "https://app.rocketseat.com.br/"}

	for _, url := range []string{
		"https://iframe.mediadelivery.net/embed/123/abc",
		"https://vz-1.BunnyCDN.b-cdn.net/playlist.m3u8",
	} {
		probe := adapt(r, url, headers, extractor.PhaseProbe)
		if probe.ExtractFlat {
			t.Errorf("%s: BunnyCDN should force full extraction", url)
		}
		if !slices.Contains(probe.ExtractorArgs, BunnyCDNExtractorArgs) {
			t.Errorf("%s: extractor args = %v", url, probe.ExtractorArgs)
		}
		if probe.UserAgent != DefaultUserAgent {
			t.Errorf("%s: user agent = %q", url, probe.UserAgent)
		}
		expected := map[string]string{
			"Accept":          "*/*",
			"Accept-Language": AcceptLanguage,
			"Accept-Encoding": "identity",
			"Origin":          BunnyCDNOrigin,
			"Sec-Fetch-Dest":  "video",
			"Sec-Fetch-Mode":  "cors",
			"Sec-Fetch-Site":  "cross-site",
		}
		for k, v := range expected {
			if probe.HTTPHeaders[k] != v {
				t.Errorf("%s: header %s = %q, expected %q", url, k, probe.HTTPHeaders[k], v)
			}
		}
		if probe.Format != "" {
			t.Errorf("%s: format should only be forced on download", url)
		}

		dl := adapt(r, url, headers, extractor.PhaseDownload)
		if dl.Format != BestFormat {
			t.Errorf("%s: download format = %q", url, dl.Format)
		}
	}

	items := adapt(r, "https://iframe.mediadelivery.net/embed/1/2", headers, extractor.PhaseItems)
	if len(items.ExtractorArgs) != 0 {
		t.Errorf("BunnyCDN rule should not apply to item listing: %v", items.ExtractorArgs)
	}
}

func TestAdapt_Udemy(t *testing.T) {
	r := Default(nil)
	headers := map[string]string{"Cookie": "access_token=x", "User-Agent": "UA"}
	url := "https://www.Udemy.com/course/go/learn/lecture/1"

	probe := adapt(r, url, headers, extractor.PhaseProbe)
	if probe.ExtractFlat {
		t.Error("Udemy should force full extraction")
	}
	if probe.SleepInterval != time.Second || probe.MaxSleepInterval != 5*time.Second {
		t.Errorf("probe sleep = %v..%v", probe.SleepInterval, probe.MaxSleepInterval)
	}
	if !slices.Equal(probe.ExtractorArgs, []string{UdemyExtractorArgs}) {
		t.Errorf("probe extractor args = %v", probe.ExtractorArgs)
	}
	if probe.HTTPHeaders["DNT"] != "1" || probe.HTTPHeaders["Accept"] != AcceptDocument {
		t.Errorf("probe headers = %v", probe.HTTPHeaders)
	}
	if _, ok := probe.HTTPHeaders["Sec-GPC"]; ok {
		t.Error("Sec-GPC is only sent on download")
	}

	items := adapt(r, url, headers, extractor.PhaseItems)
	if items.SleepInterval != time.Second {
		t.Errorf("items sleep = %v", items.SleepInterval)
	}

	dl := adapt(r, url, headers, extractor.PhaseDownload)
	if dl.SleepInterval != 2*time.Second || dl.MaxSleepInterval != 10*time.Second {
		t.Errorf("download sleep = %v..%v", dl.SleepInterval, dl.MaxSleepInterval)
	}
	if dl.SocketTimeout != UdemySocketTimeout || dl.Retries != UdemyRetries {
		t.Errorf("download timeout/retries = %v/%d", dl.SocketTimeout, dl.Retries)
	}
	if !slices.Equal(dl.ExtractorArgs, []string{UdemyDownloadExtractorArgs}) {
		t.Errorf("download extractor args = %v", dl.ExtractorArgs)
	}
	for k, v := range map[string]string{"Sec-Fetch-Dest": "document", "Sec-Fetch-Mode": "navigate", "Sec-Fetch-Site": "none", "Sec-GPC": "1"} {
		if dl.HTTPHeaders[k] != v {
			t.Errorf("download header %s = %q, expected %q", k, dl.HTTPHeaders[k], v)
		}
	}

	formats := adapt(r, url, headers, extractor.PhaseFormats)
	if len(formats.ExtractorArgs) != 0 || formats.SleepInterval != 0 {
		t.Errorf("format listing only gets the base rule: %+v", formats)
	}
}

func TestRegistry_FirstMatchWinsAndExtension(t *testing.T) {
	r := NewRegistry(nil)
	var applied []string
	for _, name := range []string{"first", "second"} {
		r.Register(Rule{
			Name:   name,
			Phases: extractor.PhaseAll,
			Match:  MatchAny("example.com"),
			Apply:  func(Request, *extractor.Options) { applied = append(applied, name) },
		})
	}

	adapt(r, "https://EXAMPLE.com/x", map[string]string{"A": "1"}, extractor.PhaseProbe)
	if !slices.Equal(applied, []string{"first"}) {
		t.Errorf("applied = %v, expected [first]", applied)
	}
	if !slices.Equal(r.Names(), []string{"first", "second"}) {
		t.Errorf("Names() = %v", r.Names())
	}
	if !slices.Equal(Default(nil).Names(), []string{"bunnycdn", "udemy"}) {
		t.Errorf("Default names = %v", Default(nil).Names())
	}
}

func TestAuthHeaderNames(t *testing.T) {
	names := AuthHeaderNames(map[string]string{
		"Authorization": "Bearer x",
		"X-Auth-Token":  "y",
		"Accept":        "*/*",
		"X-Bearer":      "z",
	})
	slices.Sort(names)
	expected := []string{"Authorization", "X-Auth-Token", "X-Bearer"}
	if !slices.Equal(names, expected) {
		t.Errorf("AuthHeaderNames() = %v, expected %v", names, expected)
	}
}

func TestHeaderLookupIsCaseInsensitive(t *testing.T) {
	h := map[string]string{"user-agent": "lower"}
	if got := header(h, "User-Agent"); got != "lower" {
		t.Errorf("header() = %q", got)
	}
	if got := header(h, "Referer"); got != "" {
		t.Errorf("missing header = %q", got)
	}
}
