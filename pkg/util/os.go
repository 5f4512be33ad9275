package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
)

// FindFilesWithPattern 在指定目录下查找匹配正则表达式的文件
// directory: 要搜索的目录路径
// pattern: 文件名正则表达式
// 返回按文件名排序的匹配文件路径列表和可能的错误
func FindFilesWithPattern(directory string, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("无效的正则表达式 '%s': %v", pattern, err)
	}

	// 检查目录是否存在
	dirInfo, err := os.Stat(directory)
	if err != nil {
		return nil, fmt.Errorf("无法访问目录 '%s': %v", directory, err)
	}
	if !dirInfo.IsDir() {
		return nil, fmt.Errorf("'%s' 不是一个目录", directory)
	}

	var matchedFiles []string

	fsys := os.DirFS(directory)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// 只扫描目录第一层
		if d.IsDir() {
			if path != "." {
				return fs.SkipDir
			}
			return nil
		}

		if re.MatchString(d.Name()) {
			matchedFiles = append(matchedFiles, filepath.Join(directory, path))
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("遍历目录时出错: %v", err)
	}

	// WalkDir 按字典序遍历，结果天然有序
	return matchedFiles, nil
}

// PrepareDir ensures that the specified directory path exists.
// If the directory does not exist, it attempts to create it.
func PrepareDir(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		} else {
			return err
		}
	} else if !stat.IsDir() {
		log.Debug().Msgf("%s is not a directory", path)
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
