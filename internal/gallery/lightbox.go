package gallery

import (
	"errors"
	"sync"

	"github.com/gustafedn/atelier/internal/collection"
)

// ErrEmptyCollection is returned when a lightbox is opened over a
// collection with no photos.
var ErrEmptyCollection = errors.New("collection has no photos")

// PhotoViewFunc is notified whenever the lightbox lands on a photo.
// Implementations must not block; analytics delivery is fire and forget.
type PhotoViewFunc func(collectionID string, index int, photo collection.Photo)

// Lightbox presents one collection's photos with wrap-around navigation.
type Lightbox struct {
	coll        collection.Collection
	onPhotoView PhotoViewFunc

	mu    sync.Mutex
	index int
	open  bool
}

// NewLightbox creates a Lightbox over a collection. onPhotoView may be nil.
func NewLightbox(coll collection.Collection, onPhotoView PhotoViewFunc) *Lightbox {
	return &Lightbox{coll: coll, onPhotoView: onPhotoView}
}

// Open shows the photo at index. Opening an already open lightbox at the
// same index is a no-op so repeated open events do not double-count views.
func (l *Lightbox) Open(index int) error {
	n := len(l.coll.Photos)
	if n == 0 {
		return ErrEmptyCollection
	}
	if index < 0 || index >= n {
		return errors.New("photo index out of range")
	}

	l.mu.Lock()
	if l.open && l.index == index {
		l.mu.Unlock()
		return nil
	}
	l.open = true
	l.index = index
	photo := l.coll.Photos[index]
	l.mu.Unlock()

	l.notify(index, photo)
	return nil
}

// Next advances to the following photo, wrapping from the last to the
// first.
func (l *Lightbox) Next() {
	l.step(1)
}

// Prev steps to the previous photo, wrapping from the first to the last.
func (l *Lightbox) Prev() {
	l.step(-1)
}

func (l *Lightbox) step(delta int) {
	n := len(l.coll.Photos)
	if n == 0 {
		return
	}

	l.mu.Lock()
	if !l.open {
		l.mu.Unlock()
		return
	}
	l.index = ((l.index+delta)%n + n) % n
	index := l.index
	photo := l.coll.Photos[index]
	l.mu.Unlock()

	l.notify(index, photo)
}

// Close hides the lightbox. The next Open fires a view again.
func (l *Lightbox) Close() {
	l.mu.Lock()
	l.open = false
	l.mu.Unlock()
}

// Current returns the photo on display and its index.
func (l *Lightbox) Current() (collection.Photo, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return collection.Photo{}, 0, false
	}
	return l.coll.Photos[l.index], l.index, true
}

// Caption returns the display caption for the current photo.
func (l *Lightbox) Caption() string {
	photo, _, ok := l.Current()
	if !ok {
		return ""
	}
	return photo.Caption
}

// EXIFLine returns the EXIF summary for the current photo, or "" when the
// photo hides its EXIF data.
func (l *Lightbox) EXIFLine() string {
	photo, _, ok := l.Current()
	if !ok || !photo.ShowEXIF || photo.EXIF == nil {
		return ""
	}
	return photo.EXIF.Summary()
}

func (l *Lightbox) notify(index int, photo collection.Photo) {
	if l.onPhotoView != nil {
		l.onPhotoView(l.coll.ID, index, photo)
	}
}
