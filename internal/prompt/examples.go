package prompt

import "github.com/hpkotak/shellsage/internal/shellenv"

const gitBashExamples = `EXAMPLE TRANSLATIONS FOR GIT BASH ON WINDOWS:

[User: "list files in current directory"]
{"command": "ls -la"}

[User: "find large files in my downloads folder"]
{"command": "find ~/Downloads -type f -size +10M -exec ls -lh {} \; | sort -rh"}

[User: "show processes using the most memory"]
{"command": "ps aux --sort=-%mem | head -n 10"}

[User: "create a backup of my documents folder"]
{"command": "tar -czf ~/Documents_Backup_$(date +%Y%m%d).tar.gz ~/Documents"}

[User: "find all text files containing the word 'important'"]
{"command": "grep -r --include="*.txt" "important" ."}

[User: "show me disk space usage"]
{"command": "df -h"}

[User: "check system load average"]
{"command": "uptime"}`

const powershellExamples = `EXAMPLE TRANSLATIONS FOR POWERSHELL:

[User: "find large files in my downloads folder"]
{"command": "Get-ChildItem -Path "$HOME\Downloads" -Recurse | Where-Object {$_.Length -gt 10MB} | Sort-Object -Property Length -Descending"}

[User: "show processes using the most memory"]
{"command": "Get-Process | Sort-Object -Property WorkingSet -Descending | Select-Object -First 10 Name, Id, WorkingSet"}

[User: "create a backup of my documents folder"]
{"command": "Compress-Archive -Path "$HOME\Documents" -DestinationPath "$HOME\Documents_Backup_$(Get-Date -Format 'yyyyMMdd').zip""}

[User: "find all text files containing the word 'important'"]
{"command": "Get-ChildItem -Path . -Filter *.txt -Recurse | Select-String -Pattern "important" | Group-Object Path | Select-Object Name"}

[User: "show me disk space usage"]
{"command": "Get-PSDrive -PSProvider FileSystem | Format-Table -Property Name, Used, Free"}`

const cmdExamples = `EXAMPLE TRANSLATIONS FOR WINDOWS CMD:

[User: "find large files in my downloads folder"]
{"command": "dir "%USERPROFILE%\Downloads" /s /b /a-d | findstr /R "." > temp.txt && for /F "tokens=*" %i in ('type temp.txt') do @echo %~zi %i | findstr /R "[0-9][0-9][0-9][0-9][0-9][0-9][0-9][0-9]" && del temp.txt"}

[User: "show processes using the most memory"]
{"command": "tasklist /v /fi "memusage gt 10000" /sort:memusage"}

[User: "create a backup of my documents folder"]
{"command": "xcopy "%USERPROFILE%\Documents" "%USERPROFILE%\Documents_Backup_%date:~10,4%%date:~4,2%%date:~7,2%" /E /I /H"}

[User: "find all text files containing the word 'important'"]
{"command": "findstr /s /i /m "important" *.txt"}

[User: "show me disk space usage"]
{"command": "wmic logicaldisk get deviceid, size, freespace"}`

const macExamples = `EXAMPLE TRANSLATIONS FOR MACOS:

[User: "find large files in my downloads folder"]
{"command": "find ~/Downloads -type f -size +10M -exec ls -lh {} \; | sort -rh"}

[User: "show processes using the most memory"]
{"command": "ps aux --sort=-%mem | head -n 10"}

[User: "create a backup of my documents folder"]
{"command": "tar -czf ~/Documents_Backup_$(date +%Y%m%d).tar.gz ~/Documents"}

[User: "find all text files containing the word 'important'"]
{"command": "grep -r --include="*.txt" "important" ."}

[User: "show me disk space usage"]
{"command": "df -h"}`

const linuxExamples = `EXAMPLE TRANSLATIONS FOR LINUX:

[User: "find large files in my downloads folder"]
{"command": "find ~/Downloads -type f -size +10M -exec ls -lh {} \; | sort -rh"}

[User: "show processes using the most memory"]
{"command": "ps aux --sort=-%mem | head -n 10"}

[User: "create a backup of my documents folder"]
{"command": "tar -czf ~/Documents_Backup_$(date +%Y%m%d).tar.gz ~/Documents"}

[User: "find all text files containing the word 'important'"]
{"command": "grep -r --include="*.txt" "important" ."}

[User: "show me disk space usage"]
{"command": "df -h"}

[User: "check system load average"]
{"command": "uptime"}`

const genericExamples = `EXAMPLE TRANSLATIONS:

[User: "find large files in my downloads folder"]
{"command": "find ~/Downloads -type f -size +10M -exec ls -lh {} \; | sort -rh"}

[User: "show processes using the most memory"]
{"command": "ps aux --sort=-%mem | head -n 10"}

[User: "create a backup of my documents folder"]
{"command": "tar -czf ~/Documents_Backup_$(date +%Y%m%d).tar.gz ~/Documents"}`

// platformExamples picks full request-to-translation examples matching the
// snapshotted OS and shell.
func platformExamples(snap shellenv.Snapshot) string {
	if isGitBashOnWindows(snap) {
		return gitBashExamples
	}
	switch snap.OS {
	case "windows":
		if snap.Shell == "powershell" || snap.Shell == "pwsh" {
			return powershellExamples
		}
		return cmdExamples
	case "darwin":
		return macExamples
	case "linux":
		return linuxExamples
	}
	return genericExamples
}

const unixTaskExamples = `[Task: "List files with details"]
{"command": "ls -la"}

[Task: "Find text in files"]
{"command": "grep -r 'searchtext' ."}

[Task: "Get running processes sorted by memory usage"]
{"command": "ps aux --sort=-%mem | head -10"}

[Task: "Create a directory"]
{"command": "mkdir -p NewFolder"}

[Task: "Copy files with specific extension"]
{"command": "find . -name '*.txt' -exec cp {} ~/Backup \;"}`

const gitBashTaskExamples = unixTaskExamples + `

[Task: "List files in current directory"]
{"command": "ls -la"}`

const powershellTaskExamples = `[Task: "List files with details"]
{"command": "Get-ChildItem | Format-Table -Property Name, Length, LastWriteTime"}

[Task: "Find text in files"]
{"command": "Get-ChildItem -Recurse | Select-String -Pattern 'searchtext'"}

[Task: "Get running processes sorted by memory usage"]
{"command": "Get-Process | Sort-Object -Property WorkingSet -Descending | Select-Object -First 10 Name, Id, WorkingSet"}

[Task: "Create a directory"]
{"command": "New-Item -ItemType Directory -Path 'NewFolder'"}

[Task: "Copy files with specific extension"]
{"command": "Get-ChildItem -Path . -Filter *.txt | Copy-Item -Destination C:\Backup"}`

const cmdTaskExamples = `[Task: "List files with details"]
{"command": "dir /a"}

[Task: "Find text in files"]
{"command": "findstr /s /i 'searchtext' *.*"}

[Task: "Get running processes sorted by memory usage"]
{"command": "tasklist /v /fi 'memusage gt 1000' /sort:memusage"}

[Task: "Create a directory"]
{"command": "mkdir NewFolder"}

[Task: "Copy files with specific extension"]
{"command": "for %i in (*.txt) do copy %i C:\Backup"}`

const zshTaskExamples = `[Task: "List files with details"]
{"command": "ls -la"}

[Task: "Find text in files"]
{"command": "grep -r 'searchtext' ."}

[Task: "Get running processes sorted by memory usage"]
{"command": "ps aux --sort=-%mem | head -10"}

[Task: "Create a directory"]
{"command": "mkdir -p NewFolder"}

[Task: "Copy files with specific extension"]
{"command": "cp *.txt ~/Backup"}`

const fishTaskExamples = `[Task: "List files with details"]
{"command": "ls -la"}

[Task: "Find text in files"]
{"command": "grep -r 'searchtext' ."}

[Task: "Get running processes sorted by memory usage"]
{"command": "ps aux --sort=-%mem | head -10"}

[Task: "Create a directory"]
{"command": "mkdir -p NewFolder"}

[Task: "Copy files with specific extension"]
{"command": "for file in *.txt; cp $file ~/Backup; end"}`

// shellTaskExamples picks short task-to-command examples in the snapshotted
// shell's dialect. Unrecognized shells get the generic Unix set; an empty
// shell gets none.
func shellTaskExamples(snap shellenv.Snapshot) string {
	if snap.Shell == "" {
		return ""
	}
	if isGitBashOnWindows(snap) {
		return gitBashTaskExamples
	}
	switch snap.Shell {
	case "powershell", "pwsh":
		return powershellTaskExamples
	case "cmd":
		return cmdTaskExamples
	case "zsh":
		return zshTaskExamples
	case "fish":
		return fishTaskExamples
	}
	return unixTaskExamples
}
