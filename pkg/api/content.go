package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ContentType is the discriminator of a ContentItem on the wire.
type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeImageURL   ContentType = "image_url"
	ContentTypeInputAudio ContentType = "input_audio"
	ContentTypeFile       ContentType = "file"
	ContentTypeRefusal    ContentType = "refusal"
)

// contentTypes lists the known variants in a fixed order, each with the
// wire key that carries its payload.
var contentTypes = []struct {
	typ ContentType
	key string
}{
	{ContentTypeText, "text"},
	{ContentTypeImageURL, "image_url"},
	{ContentTypeInputAudio, "input_audio"},
	{ContentTypeFile, "file"},
	{ContentTypeRefusal, "refusal"},
}

func payloadKey(t ContentType) (string, bool) {
	for _, ct := range contentTypes {
		if ct.typ == t {
			return ct.key, true
		}
	}
	return "", false
}

// ImageURL references an image by URL or data URI.
type ImageURL struct {
	URL string `json:"url"`
	// Detail is "low", "high" or "auto". Omitted when empty.
	Detail string `json:"detail,omitempty"`
}

// InputAudio carries base64-encoded audio and its format (wav, mp3, ...).
type InputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// FileRef references an uploaded file or carries inline file data.
type FileRef struct {
	FileID   string `json:"file_id,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data,omitempty"`
}

// ContentItem is one part of a multimodal message. Type selects which of
// the payload fields is meaningful:
//
//	text        -> Text
//	image_url   -> ImageURL
//	input_audio -> InputAudio
//	file        -> File
//	refusal     -> Refusal
type ContentItem struct {
	Type       ContentType
	Text       string
	ImageURL   *ImageURL
	InputAudio *InputAudio
	File       *FileRef
	Refusal    string
}

// TextItem creates a text content item.
func TextItem(text string) ContentItem {
	return ContentItem{Type: ContentTypeText, Text: text}
}

// ImageURLItem creates an image_url content item. An empty detail is omitted.
func ImageURLItem(url, detail string) ContentItem {
	return ContentItem{
		Type:     ContentTypeImageURL,
		ImageURL: &ImageURL{URL: url, Detail: detail},
	}
}

// AudioItem creates an input_audio content item.
func AudioItem(data, format string) ContentItem {
	return ContentItem{
		Type:       ContentTypeInputAudio,
		InputAudio: &InputAudio{Data: data, Format: format},
	}
}

// FileItem creates a file content item referencing an uploaded file.
func FileItem(fileID string) ContentItem {
	return ContentItem{Type: ContentTypeFile, File: &FileRef{FileID: fileID}}
}

// RefusalItem creates a refusal content item.
func RefusalItem(refusal string) ContentItem {
	return ContentItem{Type: ContentTypeRefusal, Refusal: refusal}
}

// MarshalJSON produces the flat wire form {"type": ..., <key>: <payload>}.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case ContentTypeText:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			Text string      `json:"text"`
		}{c.Type, c.Text})

	case ContentTypeImageURL:
		if c.ImageURL == nil {
			return nil, fmt.Errorf("content item of type %q has no image_url", c.Type)
		}
		return json.Marshal(struct {
			Type     ContentType `json:"type"`
			ImageURL *ImageURL   `json:"image_url"`
		}{c.Type, c.ImageURL})

	case ContentTypeInputAudio:
		if c.InputAudio == nil {
			return nil, fmt.Errorf("content item of type %q has no input_audio", c.Type)
		}
		return json.Marshal(struct {
			Type       ContentType `json:"type"`
			InputAudio *InputAudio `json:"input_audio"`
		}{c.Type, c.InputAudio})

	case ContentTypeFile:
		if c.File == nil {
			return nil, fmt.Errorf("content item of type %q has no file", c.Type)
		}
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			File *FileRef    `json:"file"`
		}{c.Type, c.File})

	case ContentTypeRefusal:
		return json.Marshal(struct {
			Type    ContentType `json:"type"`
			Refusal string      `json:"refusal"`
		}{c.Type, c.Refusal})

	default:
		return nil, fmt.Errorf("unknown content type %q", c.Type)
	}
}

// UnmarshalJSON decodes a content item, selecting the variant by its "type"
// field. A missing or unknown discriminator, a missing payload, or a payload
// key that belongs to another variant all fail with a decode *Error.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return NewDecodeError("content item must be a JSON object", err)
	}
	if fields == nil {
		return NewDecodeError("content item must be a JSON object", nil)
	}

	rawType, ok := fields["type"]
	if !ok {
		return NewDecodeError(`content item is missing "type"`, nil)
	}
	var typ ContentType
	if err := json.Unmarshal(rawType, &typ); err != nil {
		return NewDecodeError(`content item "type" must be a string`, err)
	}

	key, known := payloadKey(typ)
	if !known {
		return NewDecodeError(fmt.Sprintf("unknown content type %q", typ), nil)
	}

	payload, ok := fields[key]
	if !ok || isJSONNull(payload) {
		return NewDecodeError(fmt.Sprintf("content item of type %q is missing %q", typ, key), nil)
	}

	for _, ct := range contentTypes {
		if ct.key == key {
			continue
		}
		if _, present := fields[ct.key]; present {
			return NewDecodeError(fmt.Sprintf("content item of type %q carries %q payload", typ, ct.key), nil)
		}
	}

	item := ContentItem{Type: typ}
	var err error
	switch typ {
	case ContentTypeText:
		err = json.Unmarshal(payload, &item.Text)
	case ContentTypeImageURL:
		item.ImageURL = &ImageURL{}
		err = json.Unmarshal(payload, item.ImageURL)
	case ContentTypeInputAudio:
		item.InputAudio = &InputAudio{}
		err = json.Unmarshal(payload, item.InputAudio)
	case ContentTypeFile:
		item.File = &FileRef{}
		err = json.Unmarshal(payload, item.File)
	case ContentTypeRefusal:
		err = json.Unmarshal(payload, &item.Refusal)
	}
	if err != nil {
		return NewDecodeError(fmt.Sprintf("invalid %q payload", key), err)
	}

	*c = item
	return nil
}

// ChatContent is the content of a chat message: either plain text or an
// ordered list of content items. Items != nil selects the multimodal form,
// so an empty non-nil slice still encodes as [].
//
// The upstream API overloads the field's shape, so decoding is directed by
// the JSON shape rather than by a discriminator: a string decodes to Text,
// an array decodes to Items.
type ChatContent struct {
	Text  string
	Items []ContentItem
}

// TextContent creates plain text content.
func TextContent(text string) ChatContent {
	return ChatContent{Text: text}
}

// MultimodalContent creates content from an ordered list of items.
func MultimodalContent(items ...ContentItem) ChatContent {
	if items == nil {
		items = []ContentItem{}
	}
	return ChatContent{Items: items}
}

// IsMultimodal reports whether the content is a list of items.
func (c ChatContent) IsMultimodal() bool {
	return c.Items != nil
}

// String returns the text of the content. For multimodal content the
// text and refusal items are joined with newlines.
func (c ChatContent) String() string {
	if !c.IsMultimodal() {
		return c.Text
	}
	var parts []string
	for _, item := range c.Items {
		switch item.Type {
		case ContentTypeText:
			parts = append(parts, item.Text)
		case ContentTypeRefusal:
			parts = append(parts, item.Refusal)
		}
	}
	return strings.Join(parts, "\n")
}

// MarshalJSON encodes plain text as a bare JSON string and multimodal
// content as an array.
func (c ChatContent) MarshalJSON() ([]byte, error) {
	if c.IsMultimodal() {
		return json.Marshal(c.Items)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON tries a string first, then an array of content items.
// JSON null decodes to empty text.
func (c *ChatContent) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*c = ChatContent{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ChatContent{Text: s}
		return nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return NewDecodeError("content must be a string or an array of content items", nil)
	}

	var items []ContentItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return asDecodeError(err, "invalid content array")
	}
	if items == nil {
		items = []ContentItem{}
	}
	*c = ChatContent{Items: items}
	return nil
}

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// asDecodeError passes through an *Error produced by a nested decoder and
// wraps anything else as a decode error.
func asDecodeError(err error, message string) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewDecodeError(message, err)
}
