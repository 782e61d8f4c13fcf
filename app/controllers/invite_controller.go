package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/marsolucoes/lumia/app/models"
	"github.com/marsolucoes/lumia/app/repository"
	"github.com/marsolucoes/lumia/internal/pkg/billing"
	"github.com/marsolucoes/lumia/internal/pkg/entitlements"
	"github.com/marsolucoes/lumia/internal/pkg/mail"
	"github.com/marsolucoes/lumia/internal/pkg/siomar"
	"github.com/marsolucoes/lumia/internal/pkg/usercontext"
	"github.com/marsolucoes/lumia/internal/pkg/utils"
)

// InviteInput is the request body for inviting a member into a workspace.
type InviteInput struct {
	Email       string `json:"email" validate:"required,email"`
	WorkspaceID string `json:"workspaceId" validate:"required"`
	Name        string `json:"name"`
}

// InviteController adds members to a workspace within the seat limit of the
// workspace's plan. Only workspace admins may invite.
type InviteController struct {
	repos    *repository.Repositories
	mailer   billing.Mailer
	sync     *siomar.Service
	validate *validator.Validate
}

func NewInviteController(repos *repository.Repositories, mailer billing.Mailer, sync *siomar.Service) *InviteController {
	return &InviteController{
		repos:    repos,
		mailer:   mailer,
		sync:     sync,
		validate: validator.New(),
	}
}

// HandleInviteMember processes POST /workspaces/members.
func (ic *InviteController) HandleInviteMember(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}

	var in InviteInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if err := ic.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ws, err := ic.repos.Workspace.GetByID(in.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "workspace not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load workspace"})
	}

	caller, err := ic.repos.Workspace.GetMember(ws.ID, userCtx.UserID)
	if err != nil || caller.Role != models.WorkspaceRoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only workspace admins can invite members"})
	}

	plan := ic.workspacePlan(ws)
	count, err := ic.repos.Workspace.CountMembers(ws.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count members"})
	}
	if count >= int64(entitlements.SeatLimit(plan)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "seat limit reached for current plan",
			"limit": entitlements.SeatLimit(plan),
		})
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := ic.repos.User.GetByEmail(email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "a user with this email already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check existing users"})
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	tempPassword, err := models.GenerateTempPassword()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}
	invited, err := models.NewUser(name, email, tempPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}
	if err := ic.repos.User.Create(invited); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	member := &models.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      invited.ID,
		Role:        models.WorkspaceRoleMember,
	}
	if err := ic.repos.Workspace.AddMember(member); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add member"})
	}

	if ic.mailer != nil {
		if err := ic.mailer.SendTemplate(email, mail.TemplateMemberInvite, map[string]string{
			"name":          name,
			"workspace":     ws.Name,
			"temp_password": tempPassword,
		}); err != nil {
			log.Warnf("invite mail to %s failed: %v", email, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	utils.BestEffort("siomar invite sync", func() error {
		_, err := ic.sync.Sync(ctx, siomar.SyncInput{
			UserID:        invited.ID,
			Email:         email,
			Name:          invited.Name,
			WorkspaceID:   ws.ID,
			WorkspaceName: ws.Name,
			PlanLevel:     entitlements.WorkspacePlanLevel(plan),
			SeatLimit:     entitlements.SeatLimit(plan),
			Role:          models.WorkspaceRoleMember,
		})
		return err
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"userId":  invited.ID,
	})
}

// workspacePlan derives the seat-limit plan from the workspace's newest
// entitling subscription, falling back to the free tier.
func (ic *InviteController) workspacePlan(ws *models.Workspace) string {
	subs, err := ic.repos.Subscription.ListByWorkspace(ws.ID)
	if err != nil {
		log.Warnf("failed to load subscriptions for workspace %s: %v", ws.ID, err)
		return string(entitlements.PlanBasico)
	}
	for _, sub := range subs {
		switch sub.Status {
		case models.SubStatusActive, models.SubStatusTrialing, models.SubStatusPastDue:
			return sub.PlanID
		}
	}
	return string(entitlements.PlanBasico)
}
