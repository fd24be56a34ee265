package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// parseDocument decodes an XML response body into a document tree. A body
// that is not well-formed XML fails with a DecodeError wrapped in an
// APIError. A top-level result element carrying error="true" signals an
// application-level failure despite HTTP success; the nested error message
// is surfaced as the APIError message.
func parseDocument(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, &APIError{Message: "failed to read response", Cause: &DecodeError{Cause: err}}
	}
	root := doc.Root()
	if root == nil {
		return nil, &APIError{Message: "failed to read response", Cause: &DecodeError{Cause: errMissingRoot}}
	}
	if root.Tag == "result" {
		if failed, _ := strconv.ParseBool(root.SelectAttrValue("error", "false")); failed {
			return nil, &APIError{Message: childText(root, "error/message")}
		}
	}
	return doc, nil
}

type missingRootError struct{}

func (missingRootError) Error() string { return "document has no root element" }

var errMissingRoot = missingRootError{}

// childText returns the trimmed text of the element at path below el, or ""
// when the element is absent.
func childText(el *etree.Element, path string) string {
	child := el.FindElement(path)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// childAttr returns the trimmed attribute value of the element at path below
// el, or "" when the element or attribute is absent.
func childAttr(el *etree.Element, path, attr string) string {
	child := el.FindElement(path)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.SelectAttrValue(attr, ""))
}

func attr(el *etree.Element, name string) string {
	return strings.TrimSpace(el.SelectAttrValue(name, ""))
}

// epochMillis converts an epoch-milliseconds string to a time. Blank or
// unparseable input yields nil.
func epochMillis(value string) *time.Time {
	if value == "" {
		return nil
	}
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	t := time.UnixMilli(millis)
	return &t
}

func parseInt(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}

func parseInt64(value string) int64 {
	n, _ := strconv.ParseInt(value, 10, 64)
	return n
}
