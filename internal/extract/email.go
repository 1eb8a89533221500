package extract

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// EMLTextMethod parses an RFC 5322 email export: headers, the first
// text/plain (or text/html) body part, and attachment names. Attachment
// names matter because the invoice is often named in them.
type EMLTextMethod struct{}

func (m *EMLTextMethod) Name() string { return "eml-text" }

func (m *EMLTextMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", headerOr(msg.Header, "From", "Unknown"))
	fmt.Fprintf(&b, "To: %s\n", headerOr(msg.Header, "To", "Unknown"))
	fmt.Fprintf(&b, "Subject: %s\n", headerOr(msg.Header, "Subject", "No Subject"))
	fmt.Fprintf(&b, "Date: %s\n\n", headerOr(msg.Header, "Date", "Unknown"))

	body, attachments := emlBody(msg)
	b.WriteString(body)
	if len(attachments) > 0 {
		b.WriteString("\n\nAttachments:\n")
		for _, a := range attachments {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return accept(b.String(), MinEmailChars)
}

func headerOr(h mail.Header, key, fallback string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	return fallback
}

func emlBody(msg *mail.Message) (string, []string) {
	contentType := msg.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		raw, _ := io.ReadAll(decodeTransfer(msg.Body, msg.Header.Get("Content-Transfer-Encoding")))
		return string(raw), nil
	}

	var plain, html strings.Builder
	var attachments []string
	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		if name := part.FileName(); name != "" {
			attachments = append(attachments, name)
			continue
		}
		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		body := decodeTransfer(part, part.Header.Get("Content-Transfer-Encoding"))
		switch partType {
		case "text/plain":
			raw, _ := io.ReadAll(body)
			plain.Write(raw)
		case "text/html":
			raw, _ := io.ReadAll(body)
			html.Write(raw)
		}
	}
	if plain.Len() > 0 {
		return plain.String(), attachments
	}
	return html.String(), attachments
}

func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// MSGTextMethod reads an Outlook .msg file, which is an OLE compound
// document. The interesting MAPI properties live in fixed-named streams:
// 0037 subject, 0C1A sender, 0E04 recipients, 1000 body. The 001F suffix
// marks UTF-16LE strings, 001E legacy 8-bit strings.
type MSGTextMethod struct{}

func (m *MSGTextMethod) Name() string { return "msg-text" }

var msgStreams = []struct {
	label  string
	prefix string
}{
	{"From", "__substg1.0_0C1A"},
	{"To", "__substg1.0_0E04"},
	{"Subject", "__substg1.0_0037"},
	{"", "__substg1.0_1000"}, // body, no label prefix
}

func (m *MSGTextMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return "", false
	}

	values := make(map[string]string)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		for _, s := range msgStreams {
			if !strings.HasPrefix(entry.Name, s.prefix) {
				continue
			}
			raw, readErr := io.ReadAll(entry)
			if readErr != nil {
				continue
			}
			var text string
			if strings.HasSuffix(entry.Name, "001F") {
				text = decodeUTF16LE(raw)
			} else {
				text = string(raw)
			}
			if _, seen := values[s.prefix]; !seen && strings.TrimSpace(text) != "" {
				values[s.prefix] = text
			}
		}
	}

	var b strings.Builder
	for _, s := range msgStreams {
		v, ok := values[s.prefix]
		if !ok {
			continue
		}
		if s.label != "" {
			fmt.Fprintf(&b, "%s: %s\n", s.label, strings.TrimSpace(v))
		} else {
			b.WriteString("\n")
			b.WriteString(v)
		}
	}
	return accept(b.String(), MinEmailChars)
}

func decodeUTF16LE(raw []byte) string {
	if len(raw) < 2 {
		return ""
	}
	u16 := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		u16 = append(u16, binary.LittleEndian.Uint16(raw[i:]))
	}
	return string(utf16.Decode(u16))
}
