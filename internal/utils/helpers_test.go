package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# 种子列表\nhttps://b.example/\n\n  https://a.example/page  \nftp://bad.example/\nnot a url\nhttps://b.example/\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入URL文件失败: %v", err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile() error = %v", err)
	}

	// 保持文件顺序,重复项保留
	want := []string{"https://b.example/", "https://a.example/page", "https://b.example/"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("ReadURLsFromFile() = %v, want %v", urls, want)
	}
}

func TestReadURLsFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadURLsFromFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("文件不存在应返回错误")
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# only comments\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadURLsFromFile(empty); err == nil {
		t.Error("没有有效URL应返回错误")
	}
}

func TestMergeSeeds(t *testing.T) {
	tests := []struct {
		name    string
		sources [][]string
		want    []string
	}{
		{"无来源", nil, []string{}},
		{"单来源", [][]string{{"https://a.example/"}}, []string{"https://a.example/"}},
		{
			"多来源按顺序拼接",
			[][]string{{"https://c.example/"}, {"https://a.example/", "https://b.example/"}},
			[]string{"https://c.example/", "https://a.example/", "https://b.example/"},
		},
		{
			"去掉空白项保留重复",
			[][]string{{" https://a.example/ ", ""}, {"  ", "https://a.example/"}},
			[]string{"https://a.example/", "https://a.example/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeSeeds(tt.sources...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeSeeds() = %v, want %v", got, tt.want)
			}
		})
	}
}
