/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package httputil

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Validator checks a username and password pair.
type Validator func(username, password string, r *http.Request) (bool, error)

// BasicAuth rejects requests whose basic auth credentials are missing or
// refused by validator.
func BasicAuth(next http.Handler, validator Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { //nolint:varnamelen
		if username, password, ok := r.BasicAuth(); ok {
			valid, err := validator(username, password, r)
			if err != nil {
				slog.ErrorContext(r.Context(), "❌ validating credentials", "error", err)
				WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})

				return
			}

			if valid {
				next.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="vmagent", charset="UTF-8"`)
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}
}

// StaticCredentials accepts exactly one username and password pair.
func StaticCredentials(username, password string) Validator {
	return func(u, p string, _ *http.Request) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1

		return userOK && passOK, nil
	}
}

// WriteJSON writes v as the JSON body of a response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("❌ writing response body", "error", err)
	}
}
