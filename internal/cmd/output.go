package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func write(w io.Writer, format string, value any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		return yaml.NewEncoder(w).Encode(value)
	case "", "text":
		switch actual := value.(type) {
		case string:
			_, err := fmt.Fprintln(w, actual)
			return err
		case nil:
			_, err := fmt.Fprintln(w, "null")
			return err
		case bool, float64, int:
			_, err := fmt.Fprintln(w, actual)
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return fmt.Errorf("unsupported output format %q", format)
}
