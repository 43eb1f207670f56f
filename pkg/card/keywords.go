package card

// CanBlock reports whether blocker may legally declare a block against
// attacker, honoring the evasion keywords spec carries forward from the
// teacher's cmd/mtgsim/game.go canBlock. Menace ("can't be blocked except
// by two or more creatures") is a count constraint the caller enforces
// across the whole set of declared blockers, not a pairwise one, so it is
// not checked here.
func CanBlock(attacker, blocker *Card) bool {
	ad, bd := attacker.Def, blocker.Def

	if ad.HasKeyword(Flying) && !bd.HasKeyword(Flying) && !bd.HasKeyword(Reach) {
		return false
	}

	if ad.HasKeyword(Fear) && !bd.HasType(TypeArtifact) && !hasColorIdentity(bd, "B") {
		return false
	}

	if ad.HasKeyword(Intimidate) && !bd.HasType(TypeArtifact) && !sharesColor(ad, bd) {
		return false
	}

	if ad.HasKeyword(Shadow) && !bd.HasKeyword(Shadow) {
		return false
	}

	if ad.HasKeyword(Horsemanship) && !bd.HasKeyword(Horsemanship) {
		return false
	}

	if ad.HasKeyword(Unblockable) {
		return false
	}

	for _, color := range bd.ColorIdentity {
		if ad.HasProtectionFrom(color) {
			return false
		}
	}

	return true
}

func sharesColor(a, b *CardDefinition) bool {
	for _, ca := range a.ColorIdentity {
		for _, cb := range b.ColorIdentity {
			if ca == cb {
				return true
			}
		}
	}
	return false
}

func hasColorIdentity(d *CardDefinition, color string) bool {
	for _, c := range d.ColorIdentity {
		if string(c) == color {
			return true
		}
	}
	return false
}
