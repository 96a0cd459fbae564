// Package codec implements the outer transform applied to serialized
// credentials: zlib compression followed by base64 with a url-safe alphabet
// ('+' -> '*', '/' -> '-', '=' -> '_').
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/goliatone/go-usersig/sigerr"
)

// DefaultDecompressLimit bounds decompressed output when callers pass no limit.
// Credentials are a few hundred bytes.
const DefaultDecompressLimit = 64 << 10

// URLSafeEncoding is the standard base64 alphabet with the three url-hostile
// characters substituted. Padding is kept, as '_'.
var URLSafeEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789*-",
).WithPadding('_')

var urlSafeToStandard = strings.NewReplacer("*", "+", "-", "/", "_", "=")

func EncodeURLSafe(data []byte) string {
	return URLSafeEncoding.EncodeToString(data)
}

// DecodeURLSafe reverses the substitution and decodes standard base64, so
// credentials written with the plain standard alphabet decode as well.
func DecodeURLSafe(value string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(urlSafeToStandard.Replace(value))
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeDecode, "codec: invalid url-safe base64")
	}
	return decoded, nil
}

// Compress deflates data into a zlib stream at the default level, the same
// framing PHP gzcompress and node zlib.deflate produce.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCompression, "codec: create compressor")
	}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, sigerr.Wrap(err, sigerr.TextCodeCompression, "codec: compress payload")
	}
	if err := writer.Close(); err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCompression, "codec: flush compressor")
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream. Corrupt, truncated or checksum-failing
// input is rejected, as is output larger than limit (DefaultDecompressLimit
// when limit <= 0).
func Decompress(data []byte, limit int) ([]byte, error) {
	if len(data) == 0 {
		return nil, sigerr.New(sigerr.TextCodeCompression, "codec: compressed payload is empty")
	}
	if limit <= 0 {
		limit = DefaultDecompressLimit
	}
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeCompression, "codec: invalid zlib header")
	}
	defer func() { _ = reader.Close() }()

	out, err := io.ReadAll(io.LimitReader(reader, int64(limit)+1))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, sigerr.Wrap(err, sigerr.TextCodeCompression, "codec: truncated zlib stream")
		}
		return nil, sigerr.Wrap(err, sigerr.TextCodeCompression, "codec: corrupt zlib stream")
	}
	if len(out) > limit {
		return nil, sigerr.New(sigerr.TextCodeCompression, fmt.Sprintf("codec: decompressed payload exceeds %d bytes", limit))
	}
	return out, nil
}

// Encode applies Compress then EncodeURLSafe.
func Encode(payload []byte) (string, error) {
	compressed, err := Compress(payload)
	if err != nil {
		return "", err
	}
	return EncodeURLSafe(compressed), nil
}

// Decode reverses Encode.
func Decode(value string, limit int) ([]byte, error) {
	compressed, err := DecodeURLSafe(value)
	if err != nil {
		return nil, err
	}
	return Decompress(compressed, limit)
}
