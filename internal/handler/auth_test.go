package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "", http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "password123"})
	resp := decode(t, rec, nil)
	require.True(t, resp.Success, resp.Message)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, string(resp.Data), "passwordHash")

	// 用登录返回的 cookie 访问需要认证的接口
	req := httptest.NewRequest(http.MethodGet, "/my-info", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	env.h.Mux.ServeHTTP(rec, req)

	var me struct {
		Username string `json:"username"`
	}
	resp = decode(t, rec, &me)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "alice", me.Username)
}

func TestLogin_Rejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"wrong password", map[string]string{"username": "alice", "password": "nope"}, "用户名不存在或密码错误"},
		{"unknown user", map[string]string{"username": "nobody", "password": "password123"}, "用户名不存在或密码错误"},
		{"inactive user", map[string]string{"username": "gone", "password": "password123"}, "账号已停用"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "", http.MethodPost, "/auth/login", tt.body)
			resp := decode(t, rec, nil)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.msg, resp.Message)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLogin_ValidationMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "", http.MethodPost, "/auth/login", map[string]string{"username": "alice"})
	resp := decode(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Password")
}

func TestAuth_RequiresCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "", http.MethodGet, "/boards/2025-01", nil)
	resp := decode(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)

	req := httptest.NewRequest(http.MethodGet, "/boards/2025-01", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	env.h.Mux.ServeHTTP(rec, req)
	resp = decode(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)
}

func TestUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	resp := decode(t, env.do(t, "alice", http.MethodGet, "/users", nil), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)

	resp = decode(t, env.do(t, "root", http.MethodPost, "/users", map[string]string{
		"username": "bob",
		"password": "password123",
		"fullName": "Bob",
		"email":    "bob@example.com",
		"role":     "排班员",
	}), nil)
	require.True(t, resp.Success, resp.Message)

	var users []struct {
		Username string `json:"username"`
	}
	resp = decode(t, env.do(t, "root", http.MethodGet, "/users", nil), &users)
	require.True(t, resp.Success, resp.Message)
	assert.Len(t, users, 4)
}

func TestUpdateMyPassword(t *testing.T) {
	env := newTestEnv(t)

	resp := decode(t, env.do(t, "alice", http.MethodPatch, "/my-info/password", map[string]string{
		"oldPassword": "wrong",
		"newPassword": "newpassword",
	}), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "旧密码错误", resp.Message)

	resp = decode(t, env.do(t, "alice", http.MethodPatch, "/my-info/password", map[string]string{
		"oldPassword": "password123",
		"newPassword": "password123",
	}), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "新密码不能与旧密码相同", resp.Message)

	resp = decode(t, env.do(t, "alice", http.MethodPatch, "/my-info/password", map[string]string{
		"oldPassword": "password123",
		"newPassword": "newpassword",
	}), nil)
	require.True(t, resp.Success, resp.Message)

	resp = decode(t, env.do(t, "", http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "newpassword"}), nil)
	assert.True(t, resp.Success, resp.Message)
}

func TestSetUserActive(t *testing.T) {
	env := newTestEnv(t)

	resp := decode(t, env.do(t, "root", http.MethodPatch, "/users/2/active", map[string]bool{"isActive": false}), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "不能修改自己的账号状态", resp.Message)

	resp = decode(t, env.do(t, "root", http.MethodPatch, "/users/99/active", map[string]bool{"isActive": false}), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "账号不存在", resp.Message)

	resp = decode(t, env.do(t, "root", http.MethodPatch, "/users/1/active", map[string]bool{"isActive": false}), nil)
	require.True(t, resp.Success, resp.Message)

	resp = decode(t, env.do(t, "", http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "password123"}), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "账号已停用", resp.Message)
}
