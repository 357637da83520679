package library

// MemberModel wraps a member's state. Like BookModel, the library copies it
// on registration.
type MemberModel struct {
	member Member
}

// NewMember creates a member with a fresh id. The tier defaults to Standard;
// only the first tier argument is used.
func NewMember(name, email string, tier ...Tier) *MemberModel {
	t := Standard
	if len(tier) > 0 && tier[0] != "" {
		t = tier[0]
	}
	return &MemberModel{member: Member{
		ID:    GenerateID(),
		Name:  name,
		Email: email,
		Tier:  t,
	}}
}

func memberModelFrom(m Member) *MemberModel { return &MemberModel{member: m} }

// Details returns a copy of the member.
func (m *MemberModel) Details() Member { return m.member }

// UpgradeMembership moves the member to the Premium tier.
func (m *MemberModel) UpgradeMembership() { m.member.Tier = Premium }
