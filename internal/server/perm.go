package server

import "github.com/madhuracj/weblate/internal/model"

// Permission codes checked by the handlers.
const (
	PermSaveTranslation      = "save_translation"
	PermUploadTranslation    = "upload_translation"
	PermOverwriteTranslation = "overwrite_translation"
	PermAutoTranslation      = "automatic_translation"
	PermCommitTranslation    = "commit_translation"
	PermUpdateTranslation    = "update_translation"
	PermPushTranslation      = "push_translation"
	PermAddDictionary        = "add_dictionary"
	PermUploadDictionary     = "upload_dictionary"
	PermChangeDictionary     = "change_dictionary"
	PermDeleteDictionary     = "delete_dictionary"
	PermIgnoreCheck          = "ignore_check"
)

var userPerms = []string{
	PermSaveTranslation,
	PermUploadTranslation,
	PermOverwriteTranslation,
	PermAutoTranslation,
	PermAddDictionary,
	PermUploadDictionary,
	PermChangeDictionary,
	PermDeleteDictionary,
	PermIgnoreCheck,
}

var managerPerms = append([]string{
	PermCommitTranslation,
	PermUpdateTranslation,
	PermPushTranslation,
}, userPerms...)

var rolePerms = map[string][]string{
	model.RoleUser:    userPerms,
	model.RoleManager: managerPerms,
}

// HasPerm reports whether the user holds the given permission. Admins hold
// every permission.
func HasPerm(user *model.User, code string) bool {
	if user == nil {
		return false
	}
	if user.Role == model.RoleAdmin {
		return true
	}
	for _, perm := range rolePerms[user.Role] {
		if perm == code {
			return true
		}
	}
	return false
}
