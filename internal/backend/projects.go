package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nfrund/folio/internal/domain"
)

// ListProjects fetches every project (GET /projects).
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.getJSON(ctx, "/projects", "", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectsByTechnology fetches the projects of one technology
// (GET /projects/technology/{tech}).
func (c *Client) ListProjectsByTechnology(ctx context.Context, tech domain.Technology) ([]domain.Project, error) {
	var projects []domain.Project
	path := "/projects/technology/" + url.PathEscape(string(tech))
	if err := c.getJSON(ctx, path, "", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectsFiltered fetches all projects or one technology's projects
// depending on the admin list filter.
func (c *Client) ListProjectsFiltered(ctx context.Context, filter domain.ListFilter) ([]domain.Project, error) {
	if tech, ok := filter.Technology(); ok {
		return c.ListProjectsByTechnology(ctx, tech)
	}
	return c.ListProjects(ctx)
}

// GetProject fetches one project with its images (GET /projects/{id}).
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	var project domain.Project
	if err := c.getJSON(ctx, projectPath(id), "", &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject submits a new project with its images as multipart (POST /projects).
func (c *Client) CreateProject(ctx context.Context, token string, form *ProjectForm) (*domain.Result, error) {
	return c.sendForm(ctx, http.MethodPost, "/projects", token, form)
}

// UpdateProject submits changed fields and additional images as multipart
// (PUT /projects/{id}).
func (c *Client) UpdateProject(ctx context.Context, token string, id int64, form *ProjectForm) (*domain.Result, error) {
	return c.sendForm(ctx, http.MethodPut, projectPath(id), token, form)
}

// DeleteProject removes a project (DELETE /projects/{id}).
func (c *Client) DeleteProject(ctx context.Context, token string, id int64) (*domain.Result, error) {
	return c.sendResult(ctx, request{method: http.MethodDelete, path: projectPath(id), token: token})
}

// DeleteImage removes one image (DELETE /images/{id}).
func (c *Client) DeleteImage(ctx context.Context, token string, id int64) (*domain.Result, error) {
	return c.sendResult(ctx, request{method: http.MethodDelete, path: "/images/" + strconv.FormatInt(id, 10), token: token})
}

func (c *Client) sendForm(ctx context.Context, method, path, token string, form *ProjectForm) (*domain.Result, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("backend: encoding %s %s form: %w", method, path, err)
	}
	return c.sendResult(ctx, request{
		method:      method,
		path:        path,
		token:       token,
		body:        body,
		contentType: contentType,
	})
}

func projectPath(id int64) string {
	return "/projects/" + strconv.FormatInt(id, 10)
}
