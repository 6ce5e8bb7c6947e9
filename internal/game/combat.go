package game

import "fmt"

type Action string

const (
	ActionAttack  Action = "attack"
	ActionHeal    Action = "heal"
	ActionSpecial Action = "special"
)

// ParseAction validates a client-supplied action string.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionAttack, ActionHeal, ActionSpecial:
		return Action(s), true
	default:
		return "", false
	}
}

const (
	MaxHP       = 100
	MaxEnergy   = 5
	StartEnergy = 3

	AttackDamageMin = 5
	AttackDamageMax = 19

	HealAmount  = 15
	HealCost    = 2
	SpecialDmg  = 30
	SpecialCost = 3

	DefaultAvatar = "avatar_01"
)

// Combatant is one player's combat attributes within a session.
type Combatant struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"max_hp"`
	Energy   int    `json:"energy"`
	Avatar   string `json:"avatar"`
}

func NewCombatant(userID int64, username string) Combatant {
	return Combatant{
		UserID:   userID,
		Username: username,
		HP:       MaxHP,
		MaxHP:    MaxHP,
		Energy:   StartEnergy,
		Avatar:   DefaultAvatar,
	}
}

// Resolve applies one action to a pair of combatants and returns the updated
// pair, the log line and whether the opponent was defeated. The damage roll
// for attack is passed in so outcomes are reproducible; it must lie in
// [AttackDamageMin, AttackDamageMax].
func Resolve(actor, opponent Combatant, action Action, roll int) (Combatant, Combatant, string, bool) {
	var logLine string

	switch action {
	case ActionAttack:
		opponent.HP = max(0, opponent.HP-roll)
		actor.Energy = min(MaxEnergy, actor.Energy+1)
		logLine = fmt.Sprintf("%s ATTACKED for %d damage!", actor.Username, roll)

	case ActionHeal:
		if actor.Energy >= HealCost {
			actor.HP = min(actor.MaxHP, actor.HP+HealAmount)
			actor.Energy -= HealCost
			logLine = fmt.Sprintf("%s HEALED for %d HP.", actor.Username, HealAmount)
		} else {
			logLine = fmt.Sprintf("%s tried to heal but had no energy!", actor.Username)
		}

	case ActionSpecial:
		if actor.Energy >= SpecialCost {
			opponent.HP = max(0, opponent.HP-SpecialDmg)
			actor.Energy -= SpecialCost
			logLine = fmt.Sprintf("%s used ULTIMATE for %d damage!", actor.Username, SpecialDmg)
		} else {
			logLine = fmt.Sprintf("%s tried Ultimate but fizzled!", actor.Username)
		}
	}

	return actor, opponent, logLine, opponent.HP == 0
}
