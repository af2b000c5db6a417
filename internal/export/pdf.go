package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// DocumentWriter embeds a JPEG page image into a document file
type DocumentWriter interface {
	Write(path, title string, jpeg []byte, widthMM, heightMM float64) error
}

// PDFWriter writes a single-page PDF whose page is exactly the image size
type PDFWriter struct{}

func (PDFWriter) Write(path, title string, jpeg []byte, widthMM, heightMM float64) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: widthMM, Ht: heightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("cotiza", true)
	pdf.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("page", opt, bytes.NewReader(jpeg))
	pdf.ImageOptions("page", 0, 0, widthMM, heightMM, false, opt, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
