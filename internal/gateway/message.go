package gateway

import "github.com/go-faster/jx"

// errorMessage pulls the server's error text out of a failure body without
// decoding the whole document. The backend reports failures as either an
// "error" or a "message" field, with "error" taking precedence; anything
// else yields an empty string.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return ""
	}

	var errField, msgField string
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "error":
			s, err := d.Str()
			if err != nil {
				return err
			}
			errField = s
			return nil
		case "message":
			s, err := d.Str()
			if err != nil {
				return err
			}
			msgField = s
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return ""
	}
	if errField != "" {
		return errField
	}
	return msgField
}
