package pdfimages

import "testing"

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		pageNr   int
		imgNr    int
		fileType string
		want     string
	}{
		{"first image", 1, 1, "jpg", "page_001_img_001.jpg"},
		{"zero padding holds to three digits", 12, 3, "png", "page_012_img_003.png"},
		{"large page number", 1234, 1, "jpg", "page_1234_img_001.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileName(tt.pageNr, tt.imgNr, tt.fileType)
			if got != tt.want {
				t.Errorf("FileName(%d, %d, %s) = %s, want %s", tt.pageNr, tt.imgNr, tt.fileType, got, tt.want)
			}
		})
	}
}

func TestDefaultOutputDir(t *testing.T) {
	tests := []struct {
		pdfPath string
		want    string
	}{
		{"/archives/legajo_001.pdf", "/archives/legajo_001"},
		{"legajo_001.pdf", "legajo_001"},
		{"legajo_001", "legajo_001"},
	}

	for _, tt := range tests {
		if got := DefaultOutputDir(tt.pdfPath); got != tt.want {
			t.Errorf("DefaultOutputDir(%s) = %s, want %s", tt.pdfPath, got, tt.want)
		}
	}
}
