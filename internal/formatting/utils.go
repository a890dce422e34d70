package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PrettyJSON renders v as two-space indented JSON without HTML escaping, so
// URLs in settings stay readable. Values that cannot be encoded fall back to
// their %v form.
func PrettyJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
