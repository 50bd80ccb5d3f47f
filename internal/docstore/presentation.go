package docstore

import (
	"errors"
	"sort"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Field names of the presentation document.
const (
	FieldSlides   = "slides"
	FieldOrder    = "order"
	FieldAudios   = "audios"
	FieldAudioURL = "audioUrl"
	FieldCaption  = "legenda"
)

// Presentation is a presentation document. Slides keep every field they were
// read with so a whole-array write does not drop anything.
type Presentation struct {
	ID         string
	Slides     []map[string]interface{}
	UpdateTime time.Time
}

// AudioEntry is one narrated clip attached to a slide.
type AudioEntry struct {
	AudioURL string
	Caption  string
}

// SlideOrders returns the sorted order values of all slides that carry one.
func (p *Presentation) SlideOrders() []int {
	var orders []int
	for _, slide := range p.Slides {
		if order, ok := asInt(slide[FieldOrder]); ok {
			orders = append(orders, order)
		}
	}
	sort.Ints(orders)
	return orders
}

// FindSlide returns the index of the first slide whose order equals order, or -1.
func (p *Presentation) FindSlide(order int) int {
	for i, slide := range p.Slides {
		if got, ok := asInt(slide[FieldOrder]); ok && got == order {
			return i
		}
	}
	return -1
}

// AppendAudio appends an entry to the audios list of slide idx, creating the list if needed.
func (p *Presentation) AppendAudio(idx int, entry AudioEntry) {
	slide := p.Slides[idx]
	audios, _ := slide[FieldAudios].([]interface{})
	audios = append(audios, map[string]interface{}{
		FieldAudioURL: entry.AudioURL,
		FieldCaption:  entry.Caption,
	})
	slide[FieldAudios] = audios
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func slidesFrom(raw interface{}) []map[string]interface{} {
	list, _ := raw.([]interface{})
	slides := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if slide, ok := item.(map[string]interface{}); ok {
			slides = append(slides, slide)
		}
	}
	return slides
}
