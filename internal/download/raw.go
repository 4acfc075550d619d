package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
)

// fetch streams url into out in fixed-size chunks. No progress is computed
// since Content-Length is not trusted. A partial file is removed on failure.
func (d *Downloader) fetch(ctx context.Context, url string, headers map[string]string, out string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected response status: %s", resp.Status)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			os.Remove(out)
		}
	}()

	written, err := copyChunks(f, resp.Body, d.cfg.ChunkSize)
	if err != nil {
		return err
	}
	d.log.Debug("raw stream written", zap.String("output", out), zap.Int64("bytes", written))
	return nil
}

// copyChunks copies src into dst one buffer at a time
func copyChunks(dst io.Writer, src io.Reader, size int) (int64, error) {
	buf := make([]byte, size)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, fmt.Errorf("failed to write chunk: %w", werr)
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, fmt.Errorf("failed to read stream: %w", rerr)
		}
	}
}
