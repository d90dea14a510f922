package repo

import "math/rand"

const (
	slugCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	SlugLength  = 6
)

func GenerateSlug() string {
	slug := make([]byte, SlugLength)
	for i := range slug {
		slug[i] = slugCharset[rand.Intn(len(slugCharset))]
	}
	return string(slug)
}
