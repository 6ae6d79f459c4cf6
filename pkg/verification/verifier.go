// Package verification grants the verified role to members that ask for it.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/audit"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/messages"
	"github.com/Jacobbrewer1/kira/pkg/platform"
)

// RoleName is the name of the role granted to verified members.
const RoleName = "✅ Verificado"

var (
	// ErrAlreadyVerified is returned when the member already holds the role.
	ErrAlreadyVerified = errors.New("member already verified")

	// ErrRoleCreate is returned when the role is missing and cannot be created.
	ErrRoleCreate = errors.New("error creating verified role")

	// ErrRoleAssign is returned when the role cannot be granted.
	ErrRoleAssign = errors.New("error granting verified role")
)

// AuditSink receives audit entries.
type AuditSink interface {
	Notify(guildID string, e *audit.Entry)
}

// Verifier grants the verified role.
type Verifier struct {
	// l is the logger.
	l *slog.Logger

	p     platform.Platform
	audit AuditSink
}

// NewVerifier creates a new Verifier.
func NewVerifier(l *slog.Logger, p platform.Platform, auditSink AuditSink) *Verifier {
	return &Verifier{
		l:     l.With(slog.String(logging.KeyComponent, "verification")),
		p:     p,
		audit: auditSink,
	}
}

// Verify grants the verified role to the member, creating the role when the guild does not have it yet.
func (v *Verifier) Verify(ctx context.Context, guildID string, member *discordgo.Member) error {
	if member == nil || member.User == nil {
		return errors.New("member is required")
	}

	l := v.l.With(slog.String(logging.KeyGuildID, guildID), slog.String(logging.KeyUserID, member.User.ID))

	role, err := v.role(ctx, guildID)
	if err != nil {
		l.Error("Error creating verified role", slog.String(logging.KeyError, err.Error()))
		v.audit.Notify(guildID, &audit.Entry{Content: fmt.Sprintf(messages.AuditRoleCreateFailed, err)})
		return fmt.Errorf("%w: %w", ErrRoleCreate, err)
	}

	if slices.Contains(member.Roles, role.ID) {
		return ErrAlreadyVerified
	}

	if err := v.p.AddMemberRole(ctx, guildID, member.User.ID, role.ID); err != nil {
		l.Error("Error granting verified role", slog.String(logging.KeyError, err.Error()))
		v.audit.Notify(guildID, &audit.Entry{Content: fmt.Sprintf(messages.AuditRoleAssignFailed, err)})
		return fmt.Errorf("%w: %w", ErrRoleAssign, err)
	}

	v.audit.Notify(guildID, &audit.Entry{
		Content: fmt.Sprintf(messages.AuditVerified, member.User.Username, member.User.ID, role.Name),
	})
	l.Info("Member verified")
	return nil
}

func (v *Verifier) role(ctx context.Context, guildID string) (*discordgo.Role, error) {
	roles, err := v.p.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing guild roles: %w", err)
	}

	for _, r := range roles {
		if r.Name == RoleName {
			return r, nil
		}
	}

	return v.p.CreateRole(ctx, guildID, RoleName)
}
