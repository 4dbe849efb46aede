package domain

import (
	"fmt"
	"mime/multipart"
)

const (
	// ImagesBaseDir determines the general storage location of uploaded images.
	ImagesBaseDir = "images"
	// OwnerTypePost expresses that an Image belongs to a Post.
	OwnerTypePost = "post"
	// MaxUploadSize determines the maximum filesize of an image to be uploaded.
	MaxUploadSize int64 = 5 << 20 // 5 Megabyte
)

// Image represents an uploaded media file. Images live only in the
// media store, not in the database; a post keeps the reference string
// returned by the store. This core never interprets the image bytes
// beyond sniffing the content type on upload.
type Image struct {
	URL         string         `json:"url"`
	OwnerType   string         `json:"-"`
	OwnerID     int            `json:"-"`
	File        multipart.File `json:"-"`
	Filename    string         `json:"-"`
	Extension   string         `json:"-"`
	ContentType string         `json:"-"`
}

// ImageService is a set of methods to manipulate and work with the Image model
// and respective image files.
type ImageService interface {
	Create(image *Image) error
	ByOwner(ownerType string, ownerID int) ([]Image, error)
	Delete(i *Image) error
}

// RelativePath returns the reference string of an image stored in the
// media store, relative to ImagesBaseDir's parent.
func (i *Image) RelativePath() string {
	return fmt.Sprintf("%v/%v/%v/%v", ImagesBaseDir, i.OwnerType, i.OwnerID, i.Filename)
}
