package client

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// CommandError is returned when the endpoint answers a command or
// configuration write with status="Error".
type CommandError struct {
	Command string
	Reason  string
}

func (e *CommandError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("xCommand %s failed", e.Command)
	}
	return fmt.Sprintf("xCommand %s failed: %s", e.Command, e.Reason)
}

// HTTPError wraps a non-2xx response from the endpoint.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("failed to %s: HTTP %d: %s", e.Op, e.StatusCode, strings.TrimSpace(e.Body))
}

// IsReason reports whether err is a CommandError carrying the given device reason.
func IsReason(err error, reason string) bool {
	var ce *CommandError
	if errors.As(err, &ce) {
		return strings.EqualFold(strings.TrimSpace(ce.Reason), reason)
	}
	return false
}

// param is one named argument of an xCommand. Order is preserved on the wire.
type param struct {
	name  string
	value string
}

func arg(name string, value any) param {
	return param{name: name, value: fmt.Sprint(value)}
}

// buildDocument renders a putxml document such as
// <Command><Camera><Preset><Store><PresetId>1</PresetId></Store></Preset></Camera></Command>.
// Path segments of the form Camera[2] become <Camera item="2">.
func buildDocument(root string, path []string, params []param, body string) []byte {
	var b bytes.Buffer
	b.WriteString("<" + root + ">")
	for _, seg := range path {
		name, item := splitSegment(seg)
		if item != "" {
			fmt.Fprintf(&b, `<%s item="%s">`, name, item)
		} else {
			b.WriteString("<" + name + ">")
		}
	}
	for _, prm := range params {
		b.WriteString("<" + prm.name + ">")
		_ = xml.EscapeText(&b, []byte(prm.value))
		b.WriteString("</" + prm.name + ">")
	}
	if body != "" {
		b.WriteString("<body>")
		_ = xml.EscapeText(&b, []byte(body))
		b.WriteString("</body>")
	}
	for i := len(path) - 1; i >= 0; i-- {
		name, _ := splitSegment(path[i])
		b.WriteString("</" + name + ">")
	}
	b.WriteString("</" + root + ">")
	return b.Bytes()
}

func splitSegment(seg string) (string, string) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, ""
	}
	return seg[:open], seg[open+1 : len(seg)-1]
}

// putEnvelope is the reply to any /putxml request.
type putEnvelope struct {
	XMLName xml.Name
	Results []putResult `xml:",any"`
}

type putResult struct {
	XMLName xml.Name
	Status  string `xml:"status,attr"`
	Reason  string `xml:"Reason"`
	Inner   []byte `xml:",innerxml"`
}

func (r putResult) failed() bool {
	return strings.EqualFold(r.Status, "Error") || r.XMLName.Local == "Error"
}

func (r putResult) reason() string {
	if r.Reason != "" {
		return strings.TrimSpace(r.Reason)
	}
	if r.XMLName.Local == "Error" {
		return strings.TrimSpace(string(r.Inner))
	}
	return ""
}

// put posts a document to /putxml and checks the reply for device errors.
// When result is non-nil the first result element is decoded into it.
func (c *XAPIClient) put(ctx context.Context, op string, doc []byte, result any) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/xml").
		SetBody(doc).
		Post("/putxml")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var env putEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s: decode reply: %w", op, err)
	}
	for _, r := range env.Results {
		if r.failed() {
			return &CommandError{Command: op, Reason: r.reason()}
		}
	}
	if result == nil || len(env.Results) == 0 {
		return nil
	}

	wrapped := make([]byte, 0, len(env.Results[0].Inner)+7)
	wrapped = append(wrapped, "<r>"...)
	wrapped = append(wrapped, env.Results[0].Inner...)
	wrapped = append(wrapped, "</r>"...)
	if err := xml.Unmarshal(wrapped, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", op, err)
	}
	return nil
}

// command runs an xCommand such as Camera Preset List.
func (c *XAPIClient) command(ctx context.Context, path []string, params []param, body string, result any) error {
	return c.put(ctx, strings.Join(path, " "), buildDocument("Command", path, params, body), result)
}

// configure writes a single xConfiguration leaf.
func (c *XAPIClient) configure(ctx context.Context, path []string, value string) error {
	if len(path) == 0 {
		return errors.New("empty configuration path")
	}
	leaf := path[len(path)-1]
	doc := buildDocument("Configuration", path[:len(path)-1], []param{{name: leaf, value: value}}, "")
	return c.put(ctx, "xConfiguration "+strings.Join(path, " "), doc, nil)
}

// get reads a /Status or /Configuration subtree via /getxml and decodes it into result.
func (c *XAPIClient) get(ctx context.Context, location string, result any) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetQueryParam("location", location).
		Get("/getxml")
	if err != nil {
		return fmt.Errorf("get %s: %w", location, err)
	}
	if resp.IsError() {
		return &HTTPError{Op: "get " + location, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if err := xml.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("get %s: decode: %w", location, err)
	}
	return nil
}
