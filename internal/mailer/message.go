package mailer

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// BuildMessage assembles a multipart MIME message carrying the rendered
// signature. Inline attachments (cid mode) go into a multipart/related
// part so Outlook and friends display them embedded.
func BuildMessage(from, to, subject string, sig *models.RenderedSignature) ([]byte, error) {
	var buf bytes.Buffer

	alt := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", alt.Boundary())

	textPart, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(sig.PlainText)); err != nil {
		return nil, err
	}

	if err := writeHTMLPart(alt, sig); err != nil {
		return nil, err
	}

	if err := alt.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeHTMLPart(alt *multipart.Writer, sig *models.RenderedSignature) error {
	if len(sig.Attachments) == 0 {
		htmlPart, err := alt.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"text/html; charset=utf-8"},
		})
		if err != nil {
			return err
		}
		_, err = htmlPart.Write([]byte(sig.HTML))
		return err
	}

	// cid references need a multipart/related container
	var related bytes.Buffer
	rel := multipart.NewWriter(&related)

	htmlPart, err := rel.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return err
	}
	if _, err := htmlPart.Write([]byte(sig.HTML)); err != nil {
		return err
	}

	for _, att := range sig.Attachments {
		part, err := rel.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {att.MimeType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-ID":                {"<" + att.Filename + ">"},
			"Content-Disposition":       {fmt.Sprintf("inline; filename=%q", att.Filename)},
		})
		if err != nil {
			return err
		}
		if err := writeWrapped(part, att.Base64); err != nil {
			return err
		}
	}

	if err := rel.Close(); err != nil {
		return err
	}

	container, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/related; boundary=%q", rel.Boundary())},
	})
	if err != nil {
		return err
	}
	_, err = container.Write(related.Bytes())
	return err
}

// writeWrapped emits base64 content in 76-character lines per RFC 2045.
func writeWrapped(w io.Writer, b64 string) error {
	for len(b64) > 0 {
		n := 76
		if len(b64) < n {
			n = len(b64)
		}
		if _, err := w.Write([]byte(b64[:n] + "\r\n")); err != nil {
			return err
		}
		b64 = b64[n:]
	}
	return nil
}
