package imagestore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveTemporary_RejectsBeforeUpload(t *testing.T) {
	s := &Store{bucket: "test"}

	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     error
	}{
		{
			name:        "файл больше лимита",
			size:        MaxImageSize + 1,
			contentType: "image/jpeg",
			wantErr:     ErrTooLarge,
		},
		{
			name:        "недопустимый тип",
			size:        1024,
			contentType: "application/pdf",
			wantErr:     ErrBadContentType,
		},
		{
			name:        "svg не входит в список допустимых",
			size:        1024,
			contentType: "image/svg+xml",
			wantErr:     ErrBadContentType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveTemporary(context.Background(), strings.NewReader("data"), tt.size, tt.contentType)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMoveToPermanent_RejectsForeignHandle(t *testing.T) {
	// Ключи приходят из редактируемого клиентом черновика: ключ чужого
	// постоянного объекта должен быть отклонён до обращения к хранилищу,
	// иначе перенос скопировал бы и удалил чужое изображение.
	s := &Store{bucket: "test"}

	tests := []struct {
		name   string
		handle string
	}{
		{name: "постоянный ключ другого объявления", handle: "property/7/victim.jpg"},
		{name: "пустой ключ", handle: ""},
		{name: "обход через относительный путь", handle: "../tmp/abc.jpg"},
		{name: "сегмент .. внутри tmp", handle: "tmp/../property/7/victim.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.MoveToPermanent(context.Background(), tt.handle, 42)
			assert.ErrorIs(t, err, ErrNotTemporary)
		})
	}
}

func TestExtOf(t *testing.T) {
	assert.Equal(t, ".jpg", extOf("tmp/abc.jpg"))
	assert.Equal(t, ".webp", extOf("property/42/img.webp"))
	assert.Equal(t, "", extOf("tmp/noext"))
	// Точка в имени каталога не считается расширением.
	assert.Equal(t, "", extOf("tmp.dir/noext"))
}
