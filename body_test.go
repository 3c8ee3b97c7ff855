// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Child struct {
	V string `json:"v"`
}

type NestedRequest struct {
	C Child `json:"c"`
}

type NestedResponse struct {
	V string `json:"v"`
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(v)
	require.NoError(t, err)
	return &buf
}

func TestHandleBody(t *testing.T) {
	t.Run("will bind the request body to the request record", func(t *testing.T) {
		t.Run("if the body is JSON with a nested record", func(t *testing.T) {
			h := HandlerFunc[NestedRequest, NestedResponse](func(ctx context.Context, req *NestedRequest) (*NestedResponse, error) {
				return &NestedResponse{
					V: req.C.V,
				}, nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodPost,
				BasePath("/nested"),
				NewOperation(HandleBody(h)),
			))

			body := jsonBody(t, map[string]any{
				"c": map[string]any{"v": "val"},
			})
			resp, err := http.Post(srv.URL+"/nested", "application/json", body)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			nested := decodeJson[NestedResponse](t, resp.Body)
			assert.Equal(t, "val", nested.V)
		})

		t.Run("if the body is form encoded", func(t *testing.T) {
			type FormRequest struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			}
			type FormResponse struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			}

			h := HandlerFunc[FormRequest, FormResponse](func(ctx context.Context, req *FormRequest) (*FormResponse, error) {
				return &FormResponse{
					Name: req.Name,
					Age:  req.Age,
				}, nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodPost,
				BasePath("/form"),
				NewOperation(HandleBody(h)),
			))

			form := url.Values{}
			form.Set("name", "bob")
			form.Set("age", "42")
			resp, err := http.Post(
				srv.URL+"/form",
				"application/x-www-form-urlencoded",
				strings.NewReader(form.Encode()),
			)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			formResp := decodeJson[FormResponse](t, resp.Body)
			assert.Equal(t, "bob", formResp.Name)
			assert.Equal(t, 42, formResp.Age)
		})

		t.Run("if unrecognized body keys are present", func(t *testing.T) {
			h := HandlerFunc[Person, Display](func(ctx context.Context, req *Person) (*Display, error) {
				return &Display{
					Length: req.Name,
				}, nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodPost,
				BasePath("/"),
				NewOperation(HandleBody(h)),
			))

			body := jsonBody(t, map[string]any{
				"name":    "abc",
				"unknown": "ignored",
			})
			resp, err := http.Post(srv.URL+"/", "application/json", body)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			display := decodeJson[Display](t, resp.Body)
			assert.Equal(t, "abc", display.Length)
		})
	})

	t.Run("will return a 400 status code", func(t *testing.T) {
		postJson := func(t *testing.T, contentType, body string) *http.Response {
			t.Helper()

			h := HandlerFunc[NestedRequest, NestedResponse](func(ctx context.Context, req *NestedRequest) (*NestedResponse, error) {
				return &NestedResponse{}, nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodPost,
				BasePath("/nested"),
				NewOperation(HandleBody(h)),
			))

			resp, err := http.Post(srv.URL+"/nested", contentType, strings.NewReader(body))
			require.NoError(t, err)
			t.Cleanup(func() {
				resp.Body.Close()
			})
			return resp
		}

		t.Run("if the content type is neither JSON nor form encoded", func(t *testing.T) {
			resp := postJson(t, "text/plain", `{"c":{"v":"val"}}`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("if the JSON body is malformed", func(t *testing.T) {
			resp := postJson(t, "application/json", `{"c":`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("if a required field is missing from the body", func(t *testing.T) {
			resp := postJson(t, "application/json", `{}`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("if a nested field can not be coerced", func(t *testing.T) {
			resp := postJson(t, "application/json", `{"c":{"v":123}}`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	})
}
