package models

// WatchPart names one of the three independent reads behind the watch screen.
type WatchPart string

const (
	PartEpisode  WatchPart = "episode"
	PartComments WatchPart = "comments"
	PartRelated  WatchPart = "related"
)

// WatchView is the watch screen: the focused episode, its comments, and a small
// sample of other episodes. Each part resolves on its own.
type WatchView struct {
	EpisodeID string    `json:"episodeId"`
	Episode   *Episode  `json:"episode"`
	Comments  []Comment `json:"comments"`
	Related   []Episode `json:"related"`

	NotFound bool                 `json:"notFound"`
	Resolved map[WatchPart]bool   `json:"resolved"`
	Errors   map[WatchPart]string `json:"errors,omitempty"`
}

func NewWatchView(episodeID string) *WatchView {
	return &WatchView{
		EpisodeID: episodeID,
		Comments:  []Comment{},
		Related:   []Episode{},
		Resolved:  make(map[WatchPart]bool, 3),
	}
}

// Complete reports whether all three parts have resolved.
func (v *WatchView) Complete() bool {
	return v.Resolved[PartEpisode] && v.Resolved[PartComments] && v.Resolved[PartRelated]
}

func (v *WatchView) SetError(part WatchPart, err error) {
	if err == nil {
		return
	}
	if v.Errors == nil {
		v.Errors = make(map[WatchPart]string)
	}
	v.Errors[part] = err.Error()
}
