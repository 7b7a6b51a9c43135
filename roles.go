package main

// RoleType identifies one of the five roles of the 9-seat game.
type RoleType string

const (
	RoleWerewolf RoleType = "werewolf"
	RoleSeer     RoleType = "seer"
	RoleWitch    RoleType = "witch"
	RoleHunter   RoleType = "hunter"
	RoleVillager RoleType = "villager"
)

// Camp is the coalition a role wins or loses with.
type Camp string

const (
	CampNone     Camp = ""
	CampWerewolf Camp = "werewolf"
	CampVillager Camp = "villager"
)

// standardRoles is the fixed composition dealt to the nine seats.
var standardRoles = []RoleType{
	RoleWerewolf, RoleWerewolf, RoleWerewolf,
	RoleSeer, RoleWitch, RoleHunter,
	RoleVillager, RoleVillager, RoleVillager,
}

const seatCount = 9

// Role definitions, keyed by type
var roleInfo = map[RoleType]struct {
	Name        string
	Camp        Camp
	Description string
}{
	RoleWerewolf: {"Werewolf", CampWerewolf, `You are a Werewolf.
- Every night you and the other werewolves must agree on one player to kill.
- You know who your fellow werewolves are.
- You win when all gods (Seer, Witch, Hunter) or all plain villagers are dead.`},
	RoleSeer: {"Seer", CampVillager, `You are the Seer.
- Every night you may inspect one player and learn whether they are a werewolf.
- Lead the village toward the werewolves during the day.
- You win when every werewolf has been eliminated.`},
	RoleWitch: {"Witch", CampVillager, `You are the Witch.
- You own one antidote (saves tonight's werewolf victim) and one poison (kills a player).
- At most one potion per night; you cannot use both on the same night.
- You cannot save yourself.
- You win when every werewolf has been eliminated.`},
	RoleHunter: {"Hunter", CampVillager, `You are the Hunter.
- When killed by the werewolves or exiled by vote you may shoot one player.
- If the Witch poisons you, you cannot shoot.
- You win when every werewolf has been eliminated.`},
	RoleVillager: {"Villager", CampVillager, `You are a Villager.
- You have no special ability.
- Reason, speak and vote to find the werewolves.
- You win when every werewolf has been eliminated.`},
}

// WitchPotions is the Witch's mutable ability state. Potions only ever go from true to false.
type WitchPotions struct {
	HasAntidote    bool
	HasPoison      bool
	CannotSaveSelf bool
}

// HunterGun is the Hunter's mutable ability state.
type HunterGun struct {
	CanShoot bool
}

// Role is a tagged variant: only the Witch and the Hunter carry ability state.
type Role struct {
	Type   RoleType
	Witch  *WitchPotions
	Hunter *HunterGun
}

func newRole(t RoleType) Role {
	r := Role{Type: t}
	switch t {
	case RoleWitch:
		r.Witch = &WitchPotions{HasAntidote: true, HasPoison: true, CannotSaveSelf: true}
	case RoleHunter:
		r.Hunter = &HunterGun{CanShoot: true}
	}
	return r
}

func (r Role) Name() string        { return roleInfo[r.Type].Name }
func (r Role) Camp() Camp          { return roleInfo[r.Type].Camp }
func (r Role) Description() string { return roleInfo[r.Type].Description }

// IsGod reports whether the role is a villager-camp role with an active ability.
func (r Role) IsGod() bool {
	return r.Type == RoleSeer || r.Type == RoleWitch || r.Type == RoleHunter
}

// UseAntidote consumes the antidote. It returns false if there was none left.
func (r Role) UseAntidote() bool {
	if r.Witch == nil || !r.Witch.HasAntidote {
		return false
	}
	r.Witch.HasAntidote = false
	return true
}

// UsePoison consumes the poison. It returns false if there was none left.
func (r Role) UsePoison() bool {
	if r.Witch == nil || !r.Witch.HasPoison {
		return false
	}
	r.Witch.HasPoison = false
	return true
}

func (r Role) CanShoot() bool {
	return r.Hunter != nil && r.Hunter.CanShoot
}

func (r Role) DisableShoot() {
	if r.Hunter != nil {
		r.Hunter.CanShoot = false
	}
}
