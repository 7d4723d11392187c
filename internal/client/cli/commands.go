package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/client/client"
	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/netx"
)

const maxAvatarBytes = 5 << 20

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	return nil
}

func (a *App) register(ctx context.Context) error {
	var r client.Registration
	var err error

	if r.Name, err = GetSimpleText(a.reader, "-Enter name", a.out); err != nil {
		return err
	}
	if r.Email, err = GetSimpleText(a.reader, "-Enter email", a.out); err != nil {
		return err
	}
	if r.Identifier, err = GetSimpleText(a.reader, "-Enter username", a.out); err != nil {
		return err
	}
	if r.ProfilePicture, err = GetSimpleText(a.reader, "-Enter profile picture URL", a.out); err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	r.Password = string(password)

	u, err := a.api.Register(ctx, r)
	if err != nil {
		return err
	}
	a.printf("Registered %s (%s), you can log in now\n", u.Identifier, u.ID)
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrAuthFailed) {
			return errors.New("login unsuccessful: user or password invalid")
		}
		return err
	}

	sess := &Session{ServerURL: a.config.ServerURL, Token: s.Token, UserID: s.ID, Email: s.Email}
	if u, err := a.api.GetUser(ctx, s.ID); err == nil {
		sess.Identifier = u.Identifier
	}
	if err := a.sessions.save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.session = sess

	a.printf("Login successful\n")
	return nil
}

func (a *App) logout() error {
	if err := a.sessions.clear(); err != nil {
		return err
	}
	a.session = nil
	a.api.SetToken("")
	a.printf("Logged out\n")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u, err := a.api.GetUser(ctx, a.session.UserID)
	if err != nil {
		return err
	}
	a.printf("%s <%s> @%s\n", u.Name, u.Email, u.Identifier)
	if u.ProfilePicture != "" {
		a.printf("picture: %s\n", u.ProfilePicture)
	}
	return nil
}

func (a *App) post(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	title := strings.Join(args, " ")
	if title == "" {
		var err error
		if title, err = GetSimpleText(a.reader, "-Enter title", a.out); err != nil {
			return err
		}
	}
	text, err := GetMultiline(a.reader, "-Enter text", a.out)
	if err != nil {
		return err
	}

	p, err := a.api.CreatePost(ctx, title, text, a.session.Identifier)
	if err != nil {
		return err
	}
	a.printf("Posted %s\n", p.ID)
	return nil
}

func (a *App) list(ctx context.Context) error {
	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		a.printf("No posts yet\n")
		return nil
	}
	for _, p := range posts {
		a.printf("%s  @%s  %s\n    %s\n", p.ID, p.UsernameIdentifier, p.Title, p.TextContent)
	}
	return nil
}

func postArg(cmd string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: %s <post_id>", ErrUsage, cmd)
	}
	return args[0], nil
}

func (a *App) like(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := postArg("like", args)
	if err != nil {
		return err
	}
	if _, err := a.api.Like(ctx, id, a.session.Identifier); err != nil {
		return err
	}
	a.printf("Liked %s\n", id)
	return nil
}

func (a *App) unlike(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := postArg("unlike", args)
	if err != nil {
		return err
	}
	if _, err := a.api.Unlike(ctx, id, a.session.Identifier); err != nil {
		return err
	}
	a.printf("Unliked %s\n", id)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := postArg("delete", args)
	if err != nil {
		return err
	}
	p, err := a.api.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	a.printf("Deleted %q\n", p.Title)
	return nil
}

func (a *App) likes(ctx context.Context, args []string) error {
	id, err := postArg("likes", args)
	if err != nil {
		return err
	}
	n, err := a.api.CountLikes(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%d\n", n)
	return nil
}

func (a *App) canLike(ctx context.Context, args []string) error {
	var id, who string
	switch {
	case len(args) == 2:
		id, who = args[0], args[1]
	case len(args) == 1 && a.isLoggedIn():
		id, who = args[0], a.session.Identifier
	default:
		return fmt.Errorf("%w: can-like <post_id> [username]", ErrUsage)
	}

	ok, err := a.api.CanLike(ctx, id, who)
	if err != nil {
		return err
	}
	if ok {
		a.printf("yes\n")
	} else {
		a.printf("no\n")
	}
	return nil
}

// avatar uploads a picture to object storage and prints its URL, which can
// be used as the profile picture of a new account.
func (a *App) avatar(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: avatar <file>", ErrUsage)
	}

	fi, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	if fi.Size() > maxAvatarBytes {
		return fmt.Errorf("%s is larger than %d bytes", args[0], maxAvatarBytes)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	up, err := a.api.AvatarUploadURL(ctx)
	if err != nil {
		return err
	}
	if err := netx.UploadToPresignedURL(ctx, a.api.HTTPClient(), up.UploadURL, http.DetectContentType(data), data); err != nil {
		return err
	}

	a.printf("Uploaded: %s\n", up.ObjectURL)
	return nil
}
