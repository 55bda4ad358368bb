package web

import (
	"net/http"

	"github.com/APTrust/pharos/filter"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/gin-gonic/gin"
)

// GET /users
func (s *Server) UserIndex(c *gin.Context) {
	listRecords[registry.User](s, c, filter.Users, &registry.User{}, c.Request.URL.Query())
}

// GET /users/:id
func (s *Server) UserShow(c *gin.Context) {
	user := loadRecord[registry.User](s, c, policy.KindUser, policy.ActionShow)
	if user != nil {
		c.JSON(http.StatusOK, user)
	}
}

// DELETE /users/:id
func (s *Server) UserDelete(c *gin.Context) {
	user := loadRecord[registry.User](s, c, policy.KindUser, policy.ActionDestroy)
	if user == nil {
		return
	}
	if err := s.Context.DB.Delete(user).Error; err != nil {
		s.renderError(c, err)
		return
	}
	s.Context.Logger.Infof("%s deleted user %s", currentUser(c).Email, user.Email)
	c.Status(http.StatusNoContent)
}

// GET /roles
func (s *Server) RoleIndex(c *gin.Context) {
	user := currentUser(c)
	if !s.Auth.Allows(user, policy.KindRole, &registry.Role{}, policy.ActionIndex) {
		forbid(c)
		return
	}
	roles := make([]registry.Role, 0)
	err := s.Auth.Scope(user, policy.KindRole, &registry.Role{}).Order("roles.name").Find(&roles).Error
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Count:   int64(len(roles)),
		Results: roles,
	})
}
