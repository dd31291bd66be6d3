package application

// ChangeKind identifies what a ChangeEvent records.
type ChangeKind string

const (
	ServiceAdded ChangeKind = "service_added"
	LinkAdded    ChangeKind = "link_added"
)

// ChangeEvent is published after every successful write.
type ChangeEvent struct {
	Kind    ChangeKind
	Service string   // added service, or the "from" end of a link
	Target  string   // "to" end of a link; empty for ServiceAdded
	Domains []string // domains added with the service
}
