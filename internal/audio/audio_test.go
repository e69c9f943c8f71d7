package audio

import (
	"bytes"
	"errors"
	"testing"
)

// wavHeader is the start of a canonical PCM WAV file.
var wavHeader = []byte{
	'R', 'I', 'F', 'F', 0x24, 0x08, 0x00, 0x00, 'W', 'A', 'V', 'E',
	'f', 'm', 't', ' ', 0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x44, 0xAC, 0x00, 0x00, 0x88, 0x58, 0x01, 0x00, 0x02, 0x00, 0x10, 0x00,
	'd', 'a', 't', 'a', 0x00, 0x08, 0x00, 0x00,
}

func TestDataURLRoundTrip(t *testing.T) {
	payload := append(append([]byte{}, wavHeader...), 0x00, 0xFF, 0x10, 0x7F)

	encoded := EncodeDataURL(payload, "audio/wav")
	decoded, mediaType, err := DecodeDataURL(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Error("decoded payload differs from original")
	}
	if mediaType != "audio/wav" {
		t.Errorf("expected audio/wav, got %s", mediaType)
	}
}

func TestDecodeDataURLWithCodecParameter(t *testing.T) {
	data, mediaType, err := DecodeDataURL("data:audio/webm;codecs=opus;base64,AQID")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mediaType != "audio/webm" {
		t.Errorf("expected audio/webm, got %s", mediaType)
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("unexpected data %v", data)
	}
}

func TestDecodeDataURLUnpadded(t *testing.T) {
	data, _, err := DecodeDataURL("data:audio/webm;base64,AQIDBA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected data %v", data)
	}
}

func TestDecodeDataURLMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no_scheme", input: "audio/webm;base64,AQID"},
		{name: "no_comma", input: "data:audio/webm;base64"},
		{name: "not_base64_flag", input: "data:audio/webm,AQID"},
		{name: "bad_payload", input: "data:audio/webm;base64,!!!"},
		{name: "empty_payload", input: "data:audio/webm;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeDataURL(tt.input)
			if !errors.Is(err, ErrMalformedDataURL) {
				t.Errorf("expected ErrMalformedDataURL, got %v", err)
			}
		})
	}
}

func TestLooksLikeDataURL(t *testing.T) {
	if !LooksLikeDataURL("data:audio/webm;base64,AQID") {
		t.Error("expected valid data URL shape")
	}
	if LooksLikeDataURL("http://example.com/a.webm") {
		t.Error("expected URL to be rejected")
	}
	if LooksLikeDataURL("data:audio/webm;base64,") {
		t.Error("expected empty payload to be rejected")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{name: "sniffed_wav", data: wavHeader, declared: "audio/webm", want: ".wav"},
		{name: "declared_mp4", data: []byte{1, 2, 3}, declared: "audio/mp4; codecs=mp4a.40.2", want: ".mp4"},
		{name: "declared_webm", data: []byte{1, 2, 3}, declared: "audio/webm", want: ".webm"},
		{name: "unknown", data: []byte{1, 2, 3}, declared: "", want: DefaultExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extension(tt.data, tt.declared); got != tt.want {
				t.Errorf("Extension() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("abc.webm"); got != "audio/webm" {
		t.Errorf("expected audio/webm, got %s", got)
	}
	if got := ContentType("abc.MP4"); got != "audio/mp4" {
		t.Errorf("expected audio/mp4, got %s", got)
	}
	if got := ContentType("abc.bin"); got != "application/octet-stream" {
		t.Errorf("expected octet-stream, got %s", got)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("3.021000\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 3.021 {
		t.Errorf("expected 3.021, got %v", d)
	}

	for _, bad := range []string{"", "N/A", "abc", "-1"} {
		if _, err := ParseDuration(bad); err == nil {
			t.Errorf("ParseDuration(%q): expected error", bad)
		}
	}
}
