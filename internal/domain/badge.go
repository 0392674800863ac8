package domain

// BadgeKind identifies a status badge. The numeric order is the rendering order.
type BadgeKind int

const (
	BadgeMember BadgeKind = iota
	BadgeModerator
	BadgePremium
	BadgeTrending
)

// String returns the stable identifier of the badge kind.
func (k BadgeKind) String() string {
	switch k {
	case BadgeMember:
		return "member"
	case BadgeModerator:
		return "moderator"
	case BadgePremium:
		return "premium"
	case BadgeTrending:
		return "trending"
	default:
		return "unknown"
	}
}

// Badge is a derived status indicator with its display metadata.
type Badge struct {
	Kind    BadgeKind
	Label   string
	Tooltip string
	Icon    string // icon key resolved by the rendering layer
}

var badgeCatalog = map[BadgeKind]Badge{
	BadgeMember:    {Kind: BadgeMember, Label: "Member", Tooltip: "Gitcord Member", Icon: "member-card"},
	BadgeModerator: {Kind: BadgeModerator, Label: "Moderator", Tooltip: "Moderator", Icon: "banner"},
	BadgePremium:   {Kind: BadgePremium, Label: "Premium", Tooltip: "Premium", Icon: "premium"},
	BadgeTrending:  {Kind: BadgeTrending, Label: "Popular", Tooltip: "Hype!!", Icon: "fire"},
}

// NewBadge returns the badge of the given kind with its display metadata.
func NewBadge(kind BadgeKind) Badge {
	if b, ok := badgeCatalog[kind]; ok {
		return b
	}
	return Badge{Kind: kind, Label: kind.String()}
}
