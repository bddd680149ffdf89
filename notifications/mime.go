package notifications

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"jaytaylor.com/html2text"

	"github.com/treconstruction/changeorderino-api/log"
)

// rawEmail generates a multi-part MIME email message with a plain text part,
// an html part, and any file attachments, as follows:
//
// * multipart/mixed
//   - multipart/alternative
//   - text/plain
//   - text/html
//   - application/pdf (one part per attachment)
//
// Abbreviated example of the generated email message:
//
//	From: from@example.com
//	To: to@example.com
//	Subject: subject text
//	Content-Type: multipart/mixed; boundary="boundary_mixed"
//
//	--boundary_mixed
//	Content-Type: multipart/alternative; boundary="boundary_alternative"
//
//	--boundary_alternative
//	Content-Type: text/plain; charset=utf-8
//
//	Plain text body
//	--boundary_alternative
//	Content-Type: text/html; charset=utf-8
//
//	HTML body
//	--boundary_alternative--
//	--boundary_mixed
//	Content-Type: application/pdf
//	Content-Transfer-Encoding: base64
//	Content-Disposition: attachment; filename="TNM-001.pdf"
//	--boundary_mixed--
func rawEmail(to, from, subject, body string, attachments []Attachment) []byte {
	tbody, err := html2text.FromString(body)
	if err != nil {
		log.Errorf("error converting html email to plain text ... %s", err.Error())
		tbody = body
	}

	b := &bytes.Buffer{}

	b.WriteString("From: " + from + "\n")
	b.WriteString("To: " + to + "\n")
	b.WriteString("Subject: " + subject + "\n")
	b.WriteString("MIME-Version: 1.0\n")

	mixedWriter := multipart.NewWriter(b)
	b.WriteString(`Content-Type: multipart/mixed; boundary="` + mixedWriter.Boundary() + `"` + "\n\n")

	alternativeWriter := multipart.NewWriter(b)
	_, err = mixedWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`multipart/alternative; type="text/plain"; boundary="` + alternativeWriter.Boundary() + `"`},
	})
	if err != nil {
		log.Errorf("failed to create MIME alternative part, %s", err)
	}

	w, err := alternativeWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {"text/plain; charset=utf-8"},
		"Content-Disposition": {"inline"},
	})
	if err != nil {
		log.Errorf("failed to create MIME text part, %s", err)
	} else {
		_, _ = fmt.Fprint(w, tbody)
	}

	w, err = alternativeWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {"text/html; charset=utf-8"},
		"Content-Disposition": {"inline"},
	})
	if err != nil {
		log.Errorf("failed to create MIME html part, %s", err)
	} else {
		_, _ = fmt.Fprint(w, body)
	}

	if err = alternativeWriter.Close(); err != nil {
		log.Errorf("failed to close MIME alternative part, %s", err)
	}

	attachFiles(mixedWriter, b, attachments)

	if err = mixedWriter.Close(); err != nil {
		log.Errorf("failed to close MIME mixed part, %s", err)
	}

	return b.Bytes()
}

func attachFiles(mixedWriter *multipart.Writer, b *bytes.Buffer, attachments []Attachment) {
	for _, a := range attachments {
		_, err := mixedWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Disposition":       {fmt.Sprintf(`attachment; filename="%s"`, a.Name)},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			log.Errorf("failed to create MIME attachment part for %s, %s", a.Name, err)
			break
		}

		encoder := base64.NewEncoder(base64.StdEncoding, b)
		if _, err = encoder.Write(a.Content); err != nil {
			log.Errorf("failed to write attachment %s to email, %s", a.Name, err)
		}
		if err = encoder.Close(); err != nil {
			log.Errorf("failed to close %s base64 encoder, %s", a.Name, err)
		}
	}
}
