package auth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// User is one entry of the credentials file.
type User struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
	Organization string `yaml:"organization"`
}

type credentialsFile struct {
	Users []User `yaml:"users"`
}

// Directory holds the accounts allowed to administer quizzes.
type Directory struct {
	users map[string]User
}

// LoadDirectory reads a YAML credentials file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return ParseDirectory(bytes.NewReader(data))
}

func ParseDirectory(r io.Reader) (*Directory, error) {
	var f credentialsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	d := &Directory{users: make(map[string]User, len(f.Users))}
	for i, u := range f.Users {
		u.Username = strings.TrimSpace(u.Username)
		if u.Username == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("parse credentials: user %d: username and password_hash are required", i+1)
		}
		key := strings.ToLower(u.Username)
		if _, dup := d.users[key]; dup {
			return nil, fmt.Errorf("parse credentials: duplicate user %q", u.Username)
		}
		if u.Role == "" {
			u.Role = "trainer"
		}
		d.users[key] = u
	}
	return d, nil
}

// Authenticate checks a password against the stored bcrypt hash.
// Usernames are case-insensitive.
func (d *Directory) Authenticate(username, password string) (User, error) {
	u, ok := d.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (d *Directory) Len() int { return len(d.users) }

// HashPassword returns the bcrypt hash stored in the credentials file.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// compared against for unknown users so both failures cost a bcrypt check
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused"), bcrypt.DefaultCost)
