// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import "testing"

func TestNormalizeDocumentURL(t *testing.T) {
	const page = "https://telmidtice.com/2bac-pc-mathematiques-examens-nationaux/"

	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "absolute pdf passes through",
			href: "https://telmidtice.com/assets/exam.pdf",
			want: "https://telmidtice.com/assets/exam.pdf",
		},
		{
			name: "relative pdf resolves against page",
			href: "../assets/exam.pdf",
			want: "https://telmidtice.com/assets/exam.pdf",
		},
		{
			name: "telecharger wrapper unwraps double-encoded target",
			href: "/telecharger?url=https%253A%252F%252Ftelmidtice.com%252Fassets%252Fexam.pdf",
			want: "https://telmidtice.com/assets/exam.pdf",
		},
		{
			name: "drive share link rewrites to direct download",
			href: "https://drive.google.com/file/d/1AbCdEf/view?usp=sharing",
			want: "https://drive.google.com/uc?export=download&id=1AbCdEf",
		},
		{
			name: "docs host share link rewrites too",
			href: "https://docs.google.com/file/d/xyz789/preview",
			want: "https://drive.google.com/uc?export=download&id=xyz789",
		},
		{
			name: "drive link without file id passes through",
			href: "https://drive.google.com/drive/folders/1AbCdEf",
			want: "https://drive.google.com/drive/folders/1AbCdEf",
		},
		{
			name: "surrounding whitespace is trimmed",
			href: "  https://telmidtice.com/assets/exam.pdf  ",
			want: "https://telmidtice.com/assets/exam.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDocumentURL(tt.href, page)
			if !ok {
				t.Fatalf("NormalizeDocumentURL(%q) not ok", tt.href)
			}
			if got != tt.want {
				t.Errorf("NormalizeDocumentURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestNormalizeDocumentURLUnparsable(t *testing.T) {
	if _, ok := NormalizeDocumentURL("https://telmidtice.com/a.pdf", "://bad"); ok {
		t.Errorf("unparsable page URL should fail")
	}
	if _, ok := NormalizeDocumentURL("ht tp://bad", "https://telmidtice.com/"); ok {
		t.Errorf("unparsable href should fail")
	}
}

func TestIsDocumentURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://telmidtice.com/assets/exam.pdf", true},
		{"https://telmidtice.com/assets/EXAM.PDF", true},
		{"https://drive.google.com/uc?export=download&id=1AbCdEf", true},
		{"https://docs.google.com/file/d/xyz/view", true},
		{"https://telmidtice.com/page.html", false},
		{"https://example.com/exam.docx", false},
	}
	for _, tt := range tests {
		if got := IsDocumentURL(tt.url); got != tt.want {
			t.Errorf("IsDocumentURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
