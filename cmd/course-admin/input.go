package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"katydid-course-admin/pkg/form"
)

var (
	// errMalformedForm 输入不是 JSON 对象
	errMalformedForm = errors.New("malformed form data")
	// errInvalidForm 表单验证不通过
	errInvalidForm = errors.New("form is invalid")
)

// readForm 从文件读取表单数据，path 为空或 "-" 时读标准输入
func readForm(cmd *cobra.Command, path string) (form.Data, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening form file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var data form.Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedForm, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", errMalformedForm)
	}
	return data, nil
}

// writeJSON 以缩进格式输出到命令的标准输出
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
