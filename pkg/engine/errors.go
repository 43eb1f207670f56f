package engine

import "github.com/pkg/errors"

var (
	errAbilityIndex = errors.New("no such ability index")
	errCannotAfford = errors.New("insufficient mana to pay cost")
)
