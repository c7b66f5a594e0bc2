// Package media defines the image and video types passed between pipeline
// stages and the image normalization applied before upload.
package media
