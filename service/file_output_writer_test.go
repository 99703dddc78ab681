package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/bcflow/domain"
)

func TestFileOutputWriter(t *testing.T) {
	write := func(w io.Writer) error {
		_, err := fmt.Fprint(w, "report")
		return err
	}

	t.Run("writer", func(t *testing.T) {
		var status, out bytes.Buffer
		w := NewFileOutputWriter(&status)
		require.NoError(t, w.Write(&out, "", domain.OutputFormatText, false, write))
		assert.Equal(t, "report", out.String())
		assert.Empty(t, status.String())
	})

	t.Run("file", func(t *testing.T) {
		var status, out bytes.Buffer
		path := filepath.Join(t.TempDir(), "nested", "flow.json")
		w := NewFileOutputWriter(&status)
		require.NoError(t, w.Write(&out, path, domain.OutputFormatJSON, false, write))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "report", string(data))
		assert.Empty(t, out.String())
		assert.Contains(t, status.String(), "JSON report generated: ")
		assert.Contains(t, status.String(), "flow.json")
	})

	t.Run("write error", func(t *testing.T) {
		w := NewFileOutputWriter(io.Discard)
		err := w.Write(io.Discard, "", domain.OutputFormatText, false, func(io.Writer) error {
			return errors.New("disk full")
		})
		var de domain.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.ErrCodeOutputError, de.Code)
	})
}

func TestFileOutputWriter_HTML(t *testing.T) {
	write := func(w io.Writer) error {
		_, err := fmt.Fprint(w, "<html></html>")
		return err
	}

	newWriter := func(status io.Writer, interactive bool, openErr error) (*FileOutputWriter, *[]string) {
		var opened []string
		w := NewFileOutputWriter(status)
		w.interactive = func() bool { return interactive }
		w.open = func(url string) error {
			opened = append(opened, url)
			return openErr
		}
		return w, &opened
	}

	tests := []struct {
		name        string
		noOpen      bool
		interactive bool
		openErr     error
		wantOpened  bool
		wantStatus  string
	}{
		{"opens in browser", false, true, nil, true, "HTML report generated and opened: "},
		{"no open flag", true, true, nil, false, "HTML report generated: "},
		{"not interactive", false, false, nil, false, "HTML report generated: "},
		{"opener fails", false, true, errors.New("no opener"), true, "Warning: Could not open browser: no opener"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status bytes.Buffer
			w, opened := newWriter(&status, tt.interactive, tt.openErr)
			path := filepath.Join(t.TempDir(), "flow.html")

			require.NoError(t, w.Write(io.Discard, path, domain.OutputFormatHTML, tt.noOpen, write))
			assert.FileExists(t, path)
			assert.Contains(t, status.String(), tt.wantStatus)
			if tt.wantOpened {
				require.Len(t, *opened, 1)
				assert.Contains(t, (*opened)[0], "file://")
				assert.Contains(t, (*opened)[0], "flow.html")
			} else {
				assert.Empty(t, *opened)
			}
		})
	}
}
