// Package embedded 提供嵌入数据的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的 data/ 目录。
//
// 未初始化或嵌入数据中找不到文件时，会回退到磁盘读取，
// 这样测试与命令行工具可以直接使用仓库中的 data/ 目录。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化嵌入数据
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// ReadFile 读取文件内容
//
// 以 "data/" 开头的路径优先从嵌入数据读取，失败时回退到磁盘。
// 其他路径直接从磁盘读取。
func ReadFile(path string) ([]byte, error) {
	if name, ok := embeddedName(path); ok {
		if data, err := fs.ReadFile(dataFS, name); err == nil {
			return data, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Exists 检查文件是否存在（嵌入数据或磁盘）
func Exists(path string) bool {
	if name, ok := embeddedName(path); ok {
		if _, err := fs.Stat(dataFS, name); err == nil {
			return true
		}
	}
	_, err := os.Stat(path)
	return err == nil
}

// embeddedName 把路径标准化为嵌入文件系统中的名称
func embeddedName(path string) (string, bool) {
	if !initialized {
		return "", false
	}

	// embed.FS 使用正斜杠，并且不接受 "./" 前缀
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, "data/") {
		return "", false
	}
	return path, true
}
