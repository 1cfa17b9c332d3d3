package wrapper

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarizes a document as read by pdfcpu.
type Info struct {
	PageCount int    `json:"page_count"`
	Version   string `json:"version"`
	Encrypted bool   `json:"encrypted"`
}

func pdfcpuConfig(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}
	return conf
}

// decryptPDFCPU returns an unencrypted copy of data.
func decryptPDFCPU(data []byte, password string) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(data), &out, pdfcpuConfig(password)); err != nil {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "decrypt", Err: err}
	}
	return out.Bytes(), nil
}

// inspectPDFCPU reads and validates the document structure of data.
func inspectPDFCPU(data []byte, password string) (Info, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), pdfcpuConfig(password))
	if err != nil {
		return Info{}, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "inspect",
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}
	if err := api.ValidateContext(ctx); err != nil {
		return Info{}, &WrapperError{Library: LibraryPDFCPU, Op: "inspect", Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Info{}, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "inspect",
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	info := Info{PageCount: ctx.PageCount, Encrypted: ctx.Encrypt != nil}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}
	return info, nil
}
